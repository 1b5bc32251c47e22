package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vantage/contexts/finance-core/balance-service/domain/entities"
	domainerrors "vantage/contexts/finance-core/balance-service/domain/errors"

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

func (r *Repository) GetBalance(ctx context.Context, influencerID string) (entities.Balance, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("influencer_id = ?", strings.TrimSpace(influencerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Balance{InfluencerID: strings.TrimSpace(influencerID)}, nil
		}
		return entities.Balance{}, err
	}
	return row.toEntity(), nil
}

// ApplyEntry inserts the ledger row and mutates the balance in one
// transaction. The unique key on idempotency_key is the exactly-once fence:
// a duplicate insert affects zero rows and the balance is left untouched.
func (r *Repository) ApplyEntry(ctx context.Context, entry entities.LedgerEntry) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledgerRow := ledgerModel{
			EntryID:        strings.TrimSpace(entry.EntryID),
			InfluencerID:   strings.TrimSpace(entry.InfluencerID),
			IdempotencyKey: strings.TrimSpace(entry.IdempotencyKey),
			Kind:           entry.Kind,
			Amount:         entry.Amount,
			Reference:      strings.TrimSpace(entry.Reference),
			Notes:          strings.TrimSpace(entry.Notes),
			CreatedAt:      entry.CreatedAt.UTC(),
		}
		createResult := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		}).Create(&ledgerRow)
		if createResult.Error != nil {
			// ON CONFLICT only fences the idempotency key; a racing
			// duplicate can still trip another unique index. The first
			// writer won, so absorb it like an affected-zero-rows insert.
			if isUniqueViolation(createResult.Error) {
				return nil
			}
			return createResult.Error
		}
		if createResult.RowsAffected == 0 {
			return nil
		}

		var row balanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("influencer_id = ?", ledgerRow.InfluencerID).
			First(&row).
			Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			row = balanceModel{InfluencerID: ledgerRow.InfluencerID}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "influencer_id"}},
				DoNothing: true,
			}).Create(&row).Error; err != nil {
				return err
			}
		}

		updated, err := applyToBalance(row.toEntity(), entry)
		if err != nil {
			return err
		}
		if err := tx.Model(&balanceModel{}).
			Where("influencer_id = ?", ledgerRow.InfluencerID).
			Updates(map[string]any{
				"available":      updated.Available,
				"pending":        updated.Pending,
				"total_earnings": updated.TotalEarnings,
				"withdrawn":      updated.Withdrawn,
				"updated_at":     entry.CreatedAt.UTC(),
			}).
			Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *Repository) ListEntries(ctx context.Context, influencerID string, limit int) ([]entities.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []ledgerModel
	if err := r.db.WithContext(ctx).
		Where("influencer_id = ?", strings.TrimSpace(influencerID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.LedgerEntry{
			EntryID:        row.EntryID,
			InfluencerID:   row.InfluencerID,
			IdempotencyKey: row.IdempotencyKey,
			Kind:           row.Kind,
			Amount:         row.Amount,
			Reference:      row.Reference,
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func applyToBalance(balance entities.Balance, entry entities.LedgerEntry) (entities.Balance, error) {
	switch entry.Kind {
	case entities.EntryReserve:
		balance.Pending += entry.Amount
		balance.TotalEarnings += entry.Amount
	case entities.EntryCredit:
		if balance.Pending < entry.Amount {
			return entities.Balance{}, domainerrors.ErrInsufficientPending
		}
		balance.Pending -= entry.Amount
		balance.Available += entry.Amount
	case entities.EntryAdjust:
		balance.Available += entry.Amount
		balance.TotalEarnings += entry.Amount
	default:
		return entities.Balance{}, domainerrors.ErrInvalidAmount
	}
	if !balance.Consistent() {
		return entities.Balance{}, domainerrors.ErrInconsistentBalance
	}
	return balance, nil
}

type balanceModel struct {
	InfluencerID  string    `gorm:"column:influencer_id;primaryKey"`
	Available     float64   `gorm:"column:available"`
	Pending       float64   `gorm:"column:pending"`
	TotalEarnings float64   `gorm:"column:total_earnings"`
	Withdrawn     float64   `gorm:"column:withdrawn"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string {
	return "influencer_balances"
}

func (m balanceModel) toEntity() entities.Balance {
	return entities.Balance{
		InfluencerID:  m.InfluencerID,
		Available:     m.Available,
		Pending:       m.Pending,
		TotalEarnings: m.TotalEarnings,
		Withdrawn:     m.Withdrawn,
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type ledgerModel struct {
	EntryID        string    `gorm:"column:entry_id;primaryKey"`
	InfluencerID   string    `gorm:"column:influencer_id"`
	IdempotencyKey string    `gorm:"column:idempotency_key;uniqueIndex"`
	Kind           string    `gorm:"column:kind"`
	Amount         float64   `gorm:"column:amount"`
	Reference      string    `gorm:"column:reference"`
	Notes          string    `gorm:"column:notes"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (ledgerModel) TableName() string {
	return "balance_ledger"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
