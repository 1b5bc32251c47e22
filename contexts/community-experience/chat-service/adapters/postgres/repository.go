package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vantage/contexts/community-experience/chat-service/domain/entities"
	domainerrors "vantage/contexts/community-experience/chat-service/domain/errors"

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

// EnsureConversation relies on the unique index on application_id: the
// insert is a no-op when the row exists and the read after it returns the
// winner either way.
func (r *Repository) EnsureConversation(ctx context.Context, conversation entities.Conversation) (entities.Conversation, error) {
	row := conversationModelFromEntity(conversation)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "application_id"}},
			DoNothing: true,
		}).
		Create(&row).
		Error; err != nil {
		return entities.Conversation{}, err
	}

	var existing conversationModel
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", row.ApplicationID).
		First(&existing).
		Error; err != nil {
		return entities.Conversation{}, err
	}
	return existing.toEntity(), nil
}

func (r *Repository) GetConversation(ctx context.Context, conversationID string) (entities.Conversation, error) {
	var row conversationModel
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", strings.TrimSpace(conversationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Conversation{}, domainerrors.ErrConversationNotFound
		}
		return entities.Conversation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetConversationByApplication(ctx context.Context, applicationID string) (entities.Conversation, error) {
	var row conversationModel
	err := r.db.WithContext(ctx).
		Where("application_id = ?", strings.TrimSpace(applicationID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Conversation{}, domainerrors.ErrConversationNotFound
		}
		return entities.Conversation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListConversationsForUser(ctx context.Context, userID string) ([]entities.Conversation, error) {
	var rows []conversationModel
	if err := r.db.WithContext(ctx).
		Where("business_id = ? OR influencer_id = ?", strings.TrimSpace(userID), strings.TrimSpace(userID)).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Conversation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendMessage(ctx context.Context, message entities.Message) error {
	row := messageModel{
		MessageID:      strings.TrimSpace(message.MessageID),
		ConversationID: strings.TrimSpace(message.ConversationID),
		SenderID:       strings.TrimSpace(message.SenderID),
		SenderKind:     message.SenderKind,
		Body:           message.Body,
		CreatedAt:      message.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListMessages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []messageModel
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", strings.TrimSpace(conversationID)).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.Message{
			MessageID:      row.MessageID,
			ConversationID: row.ConversationID,
			SenderID:       row.SenderID,
			SenderKind:     row.SenderKind,
			Body:           row.Body,
			CreatedAt:      row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

type conversationModel struct {
	ConversationID string    `gorm:"column:conversation_id;primaryKey"`
	ApplicationID  string    `gorm:"column:application_id;uniqueIndex"`
	BusinessID     string    `gorm:"column:business_id"`
	InfluencerID   string    `gorm:"column:influencer_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (conversationModel) TableName() string {
	return "conversations"
}

func conversationModelFromEntity(item entities.Conversation) conversationModel {
	return conversationModel{
		ConversationID: strings.TrimSpace(item.ConversationID),
		ApplicationID:  strings.TrimSpace(item.ApplicationID),
		BusinessID:     strings.TrimSpace(item.BusinessID),
		InfluencerID:   strings.TrimSpace(item.InfluencerID),
		CreatedAt:      item.CreatedAt.UTC(),
	}
}

func (m conversationModel) toEntity() entities.Conversation {
	return entities.Conversation{
		ConversationID: m.ConversationID,
		ApplicationID:  m.ApplicationID,
		BusinessID:     m.BusinessID,
		InfluencerID:   m.InfluencerID,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type messageModel struct {
	MessageID      string    `gorm:"column:message_id;primaryKey"`
	ConversationID string    `gorm:"column:conversation_id"`
	SenderID       string    `gorm:"column:sender_id"`
	SenderKind     string    `gorm:"column:sender_kind"`
	Body           string    `gorm:"column:body"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (messageModel) TableName() string {
	return "conversation_messages"
}
