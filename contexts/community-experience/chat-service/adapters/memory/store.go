package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vantage/contexts/community-experience/chat-service/domain/entities"
	domainerrors "vantage/contexts/community-experience/chat-service/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	conversations map[string]entities.Conversation
	byApplication map[string]string
	messages      map[string][]entities.Message
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[string]entities.Conversation),
		byApplication: make(map[string]string),
		messages:      make(map[string][]entities.Message),
	}
}

func (s *Store) EnsureConversation(_ context.Context, conversation entities.Conversation) (entities.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, exists := s.byApplication[conversation.ApplicationID]; exists {
		return s.conversations[existingID], nil
	}
	s.conversations[conversation.ConversationID] = conversation
	s.byApplication[conversation.ApplicationID] = conversation.ConversationID
	return conversation, nil
}

func (s *Store) GetConversation(_ context.Context, conversationID string) (entities.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.conversations[strings.TrimSpace(conversationID)]
	if !exists {
		return entities.Conversation{}, domainerrors.ErrConversationNotFound
	}
	return item, nil
}

func (s *Store) GetConversationByApplication(_ context.Context, applicationID string) (entities.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conversationID, exists := s.byApplication[strings.TrimSpace(applicationID)]
	if !exists {
		return entities.Conversation{}, domainerrors.ErrConversationNotFound
	}
	return s.conversations[conversationID], nil
}

func (s *Store) ListConversationsForUser(_ context.Context, userID string) ([]entities.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := strings.TrimSpace(userID)
	items := make([]entities.Conversation, 0)
	for _, item := range s.conversations {
		if item.BusinessID == id || item.InfluencerID == id {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) AppendMessage(_ context.Context, message entities.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[message.ConversationID]; !exists {
		return domainerrors.ErrConversationNotFound
	}
	s.messages[message.ConversationID] = append(s.messages[message.ConversationID], message)
	return nil
}

func (s *Store) ListMessages(_ context.Context, conversationID string, limit int) ([]entities.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := append([]entities.Message(nil), s.messages[strings.TrimSpace(conversationID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
