package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vantage/contexts/marketplace/application-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/application-service/domain/errors"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/outbox"

	"github.com/google/uuid"
)

type pairKey struct {
	CampaignID   string
	InfluencerID string
}

type outboxRow struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	applications map[string]entities.Application
	pairs        map[pairKey]string
	stateLog     []entities.StateHistory
	outboxRows   []outboxRow
}

func NewStore(seed []entities.Application) *Store {
	applications := make(map[string]entities.Application, len(seed))
	pairs := make(map[pairKey]string, len(seed))
	for _, item := range seed {
		applications[item.ApplicationID] = item
		pairs[pairKey{CampaignID: item.CampaignID, InfluencerID: item.InfluencerID}] = item.ApplicationID
	}
	return &Store{
		applications: applications,
		pairs:        pairs,
		stateLog:     make([]entities.StateHistory, 0),
		outboxRows:   make([]outboxRow, 0),
	}
}

func (s *Store) CreateApplication(_ context.Context, item entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{CampaignID: item.CampaignID, InfluencerID: item.InfluencerID}
	if _, exists := s.pairs[key]; exists {
		return domainerrors.ErrDuplicateApplication
	}
	if _, exists := s.applications[item.ApplicationID]; exists {
		return domainerrors.ErrInvalidApplicationInput
	}
	s.applications[item.ApplicationID] = item
	s.pairs[key] = item.ApplicationID
	return nil
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.applications[strings.TrimSpace(applicationID)]
	if !exists {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	return item, nil
}

func (s *Store) ListApplications(_ context.Context, filter ports.ApplicationFilter) ([]entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Application, 0, len(s.applications))
	for _, item := range s.applications {
		if filter.CampaignID != "" && item.CampaignID != filter.CampaignID {
			continue
		}
		if filter.BusinessID != "" && item.BusinessID != filter.BusinessID {
			continue
		}
		if filter.InfluencerID != "" && item.InfluencerID != filter.InfluencerID {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateApplicationStatusCAS(_ context.Context, item entities.Application, fromStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.applications[item.ApplicationID]
	if !exists {
		return domainerrors.ErrApplicationNotFound
	}
	if current.Status != fromStatus {
		return domainerrors.ErrStatusConflict
	}
	s.applications[item.ApplicationID] = item
	return nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

// StateLog returns a copy of the recorded history for assertions.
func (s *Store) StateLog() []entities.StateHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.StateHistory(nil), s.stateLog...)
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.outboxRows {
		if row.message.OutboxID == envelope.EventID {
			return nil
		}
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outboxRows = append(s.outboxRows, outboxRow{
		message: outbox.Message{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]outbox.Message, 0)
	for _, row := range s.outboxRows {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outboxRows {
		if s.outboxRows[i].message.OutboxID == outboxID {
			s.outboxRows[i].published = true
			return nil
		}
	}
	return domainerrors.ErrApplicationNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
