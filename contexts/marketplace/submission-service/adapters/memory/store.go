package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"vantage/contexts/marketplace/submission-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/events"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"

	"github.com/google/uuid"
)

type outboxRow struct {
	message   outbox.Message
	published bool
}

type Store struct {
	mu sync.RWMutex

	submissions map[string]entities.Submission
	stateLog    []entities.StateHistory
	outboxRows  []outboxRow
}

func NewStore(seed []entities.Submission) *Store {
	submissions := make(map[string]entities.Submission, len(seed))
	for _, item := range seed {
		submissions[item.SubmissionID] = item
	}
	return &Store{
		submissions: submissions,
		stateLog:    make([]entities.StateHistory, 0),
		outboxRows:  make([]outboxRow, 0),
	}
}

func (s *Store) CreateSubmission(_ context.Context, item entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[item.SubmissionID]; exists {
		return domainerrors.ErrInvalidSubmissionInput
	}
	s.submissions[item.SubmissionID] = item
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.submissions[strings.TrimSpace(submissionID)]
	if !exists {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return item, nil
}

func (s *Store) ListSubmissions(_ context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Submission, 0, len(s.submissions))
	for _, item := range s.submissions {
		if filter.ApplicationID != "" && item.ApplicationID != filter.ApplicationID {
			continue
		}
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

func (s *Store) UpdateSubmissionStatusCAS(_ context.Context, item entities.Submission, fromStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.submissions[item.SubmissionID]
	if !exists {
		return domainerrors.ErrSubmissionNotFound
	}
	if current.Status != fromStatus {
		return domainerrors.ErrStatusConflict
	}
	s.submissions[item.SubmissionID] = item
	return nil
}

func (s *Store) ListDueForAutoApprove(_ context.Context, now time.Time, limit int) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	timestamp := now.UTC()
	items := make([]entities.Submission, 0)
	for _, item := range s.submissions {
		if len(items) >= limit {
			break
		}
		if item.Status != workflow.SubmissionSubmitted {
			continue
		}
		if item.AutoApproveAt == nil || !item.AutoApproveAt.Before(timestamp) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
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
	return domainerrors.ErrSubmissionNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
