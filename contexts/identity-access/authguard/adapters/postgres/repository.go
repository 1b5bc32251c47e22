package postgresadapter

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	domainerrors "vantage/contexts/identity-access/authguard/domain/errors"
	"vantage/internal/shared/identity"
)

type accountModel struct {
	SubjectID string `gorm:"column:subject_id;primaryKey"`
	Role      string `gorm:"column:role;not null"`
}

func (accountModel) TableName() string {
	return "accounts"
}

// Repository is the RoleDirectory over the accounts table kept in sync from
// the identity provider.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetRole(ctx context.Context, subjectID string) (identity.Role, error) {
	var model accountModel
	err := r.db.WithContext(ctx).First(&model, "subject_id = ?", subjectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrUnknownSubject
		}
		return "", err
	}
	role := identity.Role(model.Role)
	if !identity.IsSupportedRole(role) {
		return "", domainerrors.ErrUnknownRole
	}
	return role, nil
}
