package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vantage/contexts/marketplace/campaign-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/campaign-service/domain/errors"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/workflow"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateCampaign(ctx context.Context, campaign entities.Campaign) error {
	row := campaignModelFromEntity(campaign)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if strings.TrimSpace(filter.BusinessID) != "" {
		tx = tx.Where("business_id = ?", strings.TrimSpace(filter.BusinessID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCampaign(ctx context.Context, campaign entities.Campaign) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
		Updates(campaignUpdatesFromEntity(campaign))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

// UpdateCampaignStatusCAS writes the new status only when the stored status
// still matches fromStatus. Zero affected rows means a concurrent transition
// won and the caller gets a conflict.
func (r *Repository) UpdateCampaignStatusCAS(ctx context.Context, campaign entities.Campaign, fromStatus string) error {
	updates := map[string]any{
		"status":     campaign.Status,
		"updated_at": campaign.UpdatedAt.UTC(),
	}
	if campaign.LaunchedAt != nil {
		updates["launched_at"] = campaign.LaunchedAt.UTC()
	}
	if campaign.ClosedAt != nil {
		updates["closed_at"] = campaign.ClosedAt.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ? AND status = ?", strings.TrimSpace(campaign.CampaignID), fromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).
			Model(&campaignModel{}).
			Where("campaign_id = ?", strings.TrimSpace(campaign.CampaignID)).
			Count(&exists).
			Error; err != nil {
			return err
		}
		if exists == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *Repository) IncrementViewCount(ctx context.Context, campaignID string) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Update("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) AddFavorite(ctx context.Context, campaignID string, userID string) error {
	row := favoriteModel{
		CampaignID: strings.TrimSpace(campaignID),
		UserID:     strings.TrimSpace(userID),
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyFavorited
			}
			return err
		}
		result := tx.Model(&campaignModel{}).
			Where("campaign_id = ?", row.CampaignID).
			Update("favorite_count", gorm.Expr("favorite_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCampaignNotFound
		}
		return nil
	})
}

func (r *Repository) RemoveFavorite(ctx context.Context, campaignID string, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("campaign_id = ? AND user_id = ?", strings.TrimSpace(campaignID), strings.TrimSpace(userID)).
			Delete(&favoriteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrFavoriteNotFound
		}
		return tx.Model(&campaignModel{}).
			Where("campaign_id = ? AND favorite_count > 0", strings.TrimSpace(campaignID)).
			Update("favorite_count", gorm.Expr("favorite_count - 1")).
			Error
	})
}

func (r *Repository) IncrementApplicationCount(ctx context.Context, campaignID string) error {
	result := r.db.WithContext(ctx).
		Model(&campaignModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Update("application_count", gorm.Expr("application_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCampaignNotFound
	}
	return nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		CampaignID:   strings.TrimSpace(item.CampaignID),
		FromStatus:   item.FromStatus,
		ToStatus:     item.ToStatus,
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidCampaignInput
		}
		return err
	}
	return nil
}

func (r *Repository) CloseCampaignsPastDeadline(ctx context.Context, now time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	timestamp := now.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	closed := make([]string, 0)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []campaignModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND deadline_at IS NOT NULL AND deadline_at < ?", workflow.CampaignActive, timestamp).
			Order("deadline_at ASC").
			Limit(limit).
			Find(&rows).
			Error; err != nil {
			return err
		}

		for _, row := range rows {
			if err := tx.Model(&campaignModel{}).
				Where("campaign_id = ?", row.CampaignID).
				Updates(map[string]any{
					"status":     workflow.CampaignClosed,
					"updated_at": timestamp,
					"closed_at":  timestamp,
				}).
				Error; err != nil {
				return err
			}

			stateRow := stateHistoryModel{
				HistoryID:    uuid.NewString(),
				CampaignID:   row.CampaignID,
				FromStatus:   workflow.CampaignActive,
				ToStatus:     workflow.CampaignClosed,
				ChangedBy:    "system",
				ChangeReason: "deadline_reached",
				CreatedAt:    timestamp,
			}
			if err := tx.Create(&stateRow).Error; err != nil {
				return err
			}
			closed = append(closed, row.CampaignID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

type campaignModel struct {
	CampaignID          string     `gorm:"column:campaign_id;primaryKey"`
	BusinessID          string     `gorm:"column:business_id"`
	Title               string     `gorm:"column:title"`
	Description         string     `gorm:"column:description"`
	Niche               string     `gorm:"column:niche"`
	BudgetTotal         float64    `gorm:"column:budget_total"`
	PayoutPerSubmission float64    `gorm:"column:payout_per_submission"`
	DeadlineAt          *time.Time `gorm:"column:deadline_at"`
	ViewCount           int64      `gorm:"column:view_count"`
	FavoriteCount       int64      `gorm:"column:favorite_count"`
	ApplicationCount    int        `gorm:"column:application_count"`
	Status              string     `gorm:"column:status"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
	LaunchedAt          *time.Time `gorm:"column:launched_at"`
	ClosedAt            *time.Time `gorm:"column:closed_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func campaignModelFromEntity(item entities.Campaign) campaignModel {
	return campaignModel{
		CampaignID:          strings.TrimSpace(item.CampaignID),
		BusinessID:          strings.TrimSpace(item.BusinessID),
		Title:               strings.TrimSpace(item.Title),
		Description:         strings.TrimSpace(item.Description),
		Niche:               strings.TrimSpace(item.Niche),
		BudgetTotal:         item.BudgetTotal,
		PayoutPerSubmission: item.PayoutPerSubmission,
		DeadlineAt:          normalizeOptionalTime(item.DeadlineAt),
		ViewCount:           item.ViewCount,
		FavoriteCount:       item.FavoriteCount,
		ApplicationCount:    item.ApplicationCount,
		Status:              item.Status,
		CreatedAt:           item.CreatedAt.UTC(),
		UpdatedAt:           item.UpdatedAt.UTC(),
		LaunchedAt:          normalizeOptionalTime(item.LaunchedAt),
		ClosedAt:            normalizeOptionalTime(item.ClosedAt),
	}
}

func campaignUpdatesFromEntity(item entities.Campaign) map[string]any {
	row := campaignModelFromEntity(item)
	return map[string]any{
		"business_id":           row.BusinessID,
		"title":                 row.Title,
		"description":           row.Description,
		"niche":                 row.Niche,
		"budget_total":          row.BudgetTotal,
		"payout_per_submission": row.PayoutPerSubmission,
		"deadline_at":           row.DeadlineAt,
		"status":                row.Status,
		"updated_at":            row.UpdatedAt,
		"launched_at":           row.LaunchedAt,
		"closed_at":             row.ClosedAt,
	}
}

func (m campaignModel) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:          m.CampaignID,
		BusinessID:          m.BusinessID,
		Title:               m.Title,
		Description:         m.Description,
		Niche:               m.Niche,
		BudgetTotal:         m.BudgetTotal,
		PayoutPerSubmission: m.PayoutPerSubmission,
		DeadlineAt:          normalizeOptionalTime(m.DeadlineAt),
		ViewCount:           m.ViewCount,
		FavoriteCount:       m.FavoriteCount,
		ApplicationCount:    m.ApplicationCount,
		Status:              m.Status,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
		LaunchedAt:          normalizeOptionalTime(m.LaunchedAt),
		ClosedAt:            normalizeOptionalTime(m.ClosedAt),
	}
}

type favoriteModel struct {
	CampaignID string    `gorm:"column:campaign_id;primaryKey"`
	UserID     string    `gorm:"column:user_id;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (favoriteModel) TableName() string {
	return "campaign_favorites"
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	CampaignID   string    `gorm:"column:campaign_id"`
	FromStatus   string    `gorm:"column:from_status"`
	ToStatus     string    `gorm:"column:to_status"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "campaign_state_history"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
