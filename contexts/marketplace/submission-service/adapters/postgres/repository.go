package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vantage/contexts/marketplace/submission-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"

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

func (r *Repository) CreateSubmission(ctx context.Context, item entities.Submission) error {
	row := submissionModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidSubmissionInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubmissions(ctx context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	tx := r.db.WithContext(ctx).Model(&submissionModel{})
	if strings.TrimSpace(filter.ApplicationID) != "" {
		tx = tx.Where("application_id = ?", strings.TrimSpace(filter.ApplicationID))
	}
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

	var rows []submissionModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateSubmissionStatusCAS(ctx context.Context, item entities.Submission, fromStatus string) error {
	updates := map[string]any{
		"status":       item.Status,
		"review_notes": strings.TrimSpace(item.ReviewNotes),
		"updated_at":   item.UpdatedAt.UTC(),
	}
	if item.ReviewedAt != nil {
		updates["reviewed_at"] = item.ReviewedAt.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ? AND status = ?", strings.TrimSpace(item.SubmissionID), fromStatus).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).
			Model(&submissionModel{}).
			Where("submission_id = ?", strings.TrimSpace(item.SubmissionID)).
			Count(&exists).
			Error; err != nil {
			return err
		}
		if exists == 0 {
			return domainerrors.ErrSubmissionNotFound
		}
		return domainerrors.ErrStatusConflict
	}
	return nil
}

func (r *Repository) ListDueForAutoApprove(ctx context.Context, now time.Time, limit int) ([]entities.Submission, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []submissionModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND auto_approve_at IS NOT NULL AND auto_approve_at < ?", workflow.SubmissionSubmitted, now.UTC()).
		Order("auto_approve_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		SubmissionID: strings.TrimSpace(item.SubmissionID),
		FromStatus:   item.FromStatus,
		ToStatus:     item.ToStatus,
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidSubmissionInput
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
		return domainerrors.ErrSubmissionNotFound
	}
	return nil
}

type submissionModel struct {
	SubmissionID  string     `gorm:"column:submission_id;primaryKey"`
	ApplicationID string     `gorm:"column:application_id"`
	CampaignID    string     `gorm:"column:campaign_id"`
	BusinessID    string     `gorm:"column:business_id"`
	InfluencerID  string     `gorm:"column:influencer_id"`
	ContentURL    string     `gorm:"column:content_url"`
	MediaRefs     []string   `gorm:"column:media_refs;type:text[]"`
	Notes         string     `gorm:"column:notes"`
	ReviewNotes   string     `gorm:"column:review_notes"`
	AgreedAmount  float64    `gorm:"column:agreed_amount"`
	AutoApproveAt *time.Time `gorm:"column:auto_approve_at"`
	Status        string     `gorm:"column:status"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
}

func (submissionModel) TableName() string {
	return "submissions"
}

func submissionModelFromEntity(item entities.Submission) submissionModel {
	return submissionModel{
		SubmissionID:  strings.TrimSpace(item.SubmissionID),
		ApplicationID: strings.TrimSpace(item.ApplicationID),
		CampaignID:    strings.TrimSpace(item.CampaignID),
		BusinessID:    strings.TrimSpace(item.BusinessID),
		InfluencerID:  strings.TrimSpace(item.InfluencerID),
		ContentURL:    strings.TrimSpace(item.ContentURL),
		MediaRefs:     copyOrEmpty(item.MediaRefs),
		Notes:         strings.TrimSpace(item.Notes),
		ReviewNotes:   strings.TrimSpace(item.ReviewNotes),
		AgreedAmount:  item.AgreedAmount,
		AutoApproveAt: normalizeOptionalTime(item.AutoApproveAt),
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
		ReviewedAt:    normalizeOptionalTime(item.ReviewedAt),
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:  m.SubmissionID,
		ApplicationID: m.ApplicationID,
		CampaignID:    m.CampaignID,
		BusinessID:    m.BusinessID,
		InfluencerID:  m.InfluencerID,
		ContentURL:    m.ContentURL,
		MediaRefs:     copyOrEmpty(m.MediaRefs),
		Notes:         m.Notes,
		ReviewNotes:   m.ReviewNotes,
		AgreedAmount:  m.AgreedAmount,
		AutoApproveAt: normalizeOptionalTime(m.AutoApproveAt),
		Status:        m.Status,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
		ReviewedAt:    normalizeOptionalTime(m.ReviewedAt),
	}
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	SubmissionID string    `gorm:"column:submission_id"`
	FromStatus   string    `gorm:"column:from_status"`
	ToStatus     string    `gorm:"column:to_status"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string {
	return "submission_state_history"
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
	return "submission_outbox"
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
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
