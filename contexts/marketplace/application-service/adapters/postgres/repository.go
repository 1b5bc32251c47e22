package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vantage/contexts/marketplace/application-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/application-service/domain/errors"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) CreateApplication(ctx context.Context, item entities.Application) error {
	row := applicationModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *Repository) GetApplication(ctx context.Context, applicationID string) (entities.Application, error) {
	var row applicationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Application{}, domainerrors.ErrApplicationNotFound
		}
		return entities.Application{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListApplications(ctx context.Context, filter ports.ApplicationFilter) ([]entities.Application, error) {
	tx := r.db.WithContext(ctx).Model(&applicationModel{})
	if strings.TrimSpace(filter.CampaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(filter.CampaignID))
	}
	if strings.TrimSpace(filter.BusinessID) != "" {
		tx = tx.Where("business_id = ?", strings.TrimSpace(filter.BusinessID))
	}
	if strings.TrimSpace(filter.InfluencerID) != "" {
		tx = tx.Where("influencer_id = ?", strings.TrimSpace(filter.InfluencerID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	var rows []applicationModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Application, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// UpdateApplicationStatusCAS commits the new status only if nobody else moved
// the row first: UPDATE ... WHERE status = fromStatus.
func (r *Repository) UpdateApplicationStatusCAS(ctx context.Context, item entities.Application, fromStatus string) error {
	result := r.db.WithContext(ctx).
		Model(&applicationModel{}).
		Where("application_id = ? AND status = ?", strings.TrimSpace(item.ApplicationID), fromStatus).
		Updates(map[string]any{
			"status":     item.Status,
			"updated_at": item.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).
			Model(&applicationModel{}).
			Where("application_id = ?", strings.TrimSpace(item.ApplicationID)).
			Count(&exists).
			Error; err != nil {
			return err
		}
		if exists == 0 {
			return domainerrors.ErrApplicationNotFound
		}
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:     strings.TrimSpace(item.HistoryID),
		ApplicationID: strings.TrimSpace(item.ApplicationID),
		FromStatus:    item.FromStatus,
		ToStatus:      item.ToStatus,
		ChangedBy:     strings.TrimSpace(item.ChangedBy),
		ChangeReason:  strings.TrimSpace(item.ChangeReason),
		CreatedAt:     item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidApplicationInput
		}
		return err
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, outbox.Message{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrApplicationNotFound
	}
	return nil
}

type applicationModel struct {
	ApplicationID string    `gorm:"column:application_id;primaryKey"`
	CampaignID    string    `gorm:"column:campaign_id;uniqueIndex:idx_applications_pair"`
	BusinessID    string    `gorm:"column:business_id"`
	InfluencerID  string    `gorm:"column:influencer_id;uniqueIndex:idx_applications_pair"`
	Pitch         string    `gorm:"column:pitch"`
	AgreedAmount  float64   `gorm:"column:agreed_amount"`
	Status        string    `gorm:"column:status"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (applicationModel) TableName() string {
	return "applications"
}

func applicationModelFromEntity(item entities.Application) applicationModel {
	return applicationModel{
		ApplicationID: strings.TrimSpace(item.ApplicationID),
		CampaignID:    strings.TrimSpace(item.CampaignID),
		BusinessID:    strings.TrimSpace(item.BusinessID),
		InfluencerID:  strings.TrimSpace(item.InfluencerID),
		Pitch:         strings.TrimSpace(item.Pitch),
		AgreedAmount:  item.AgreedAmount,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m applicationModel) toEntity() entities.Application {
	return entities.Application{
		ApplicationID: m.ApplicationID,
		CampaignID:    m.CampaignID,
		BusinessID:    m.BusinessID,
		InfluencerID:  m.InfluencerID,
		Pitch:         m.Pitch,
		AgreedAmount:  m.AgreedAmount,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type stateHistoryModel struct {
	HistoryID     string    `gorm:"column:history_id;primaryKey"`
	ApplicationID string    `gorm:"column:application_id"`
	FromStatus    string    `gorm:"column:from_status"`
	ToStatus      string    `gorm:"column:to_status"`
	ChangedBy     string    `gorm:"column:changed_by"`
	ChangeReason  string    `gorm:"column:change_reason"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "application_state_history"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "application_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
