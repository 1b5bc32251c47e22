package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vantage/contexts/finance-core/balance-service/domain/entities"
	domainerrors "vantage/contexts/finance-core/balance-service/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	balances map[string]entities.Balance
	entries  map[string]entities.LedgerEntry
}

func NewStore() *Store {
	return &Store{
		balances: make(map[string]entities.Balance),
		entries:  make(map[string]entities.LedgerEntry),
	}
}

func (s *Store) GetBalance(_ context.Context, influencerID string) (entities.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := strings.TrimSpace(influencerID)
	balance, exists := s.balances[id]
	if !exists {
		return entities.Balance{InfluencerID: id}, nil
	}
	return balance, nil
}

func (s *Store) ApplyEntry(_ context.Context, entry entities.LedgerEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.IdempotencyKey]; exists {
		return false, nil
	}

	balance, exists := s.balances[entry.InfluencerID]
	if !exists {
		balance = entities.Balance{InfluencerID: entry.InfluencerID}
	}
	updated, err := applyToBalance(balance, entry)
	if err != nil {
		return false, err
	}
	updated.UpdatedAt = entry.CreatedAt

	s.entries[entry.IdempotencyKey] = entry
	s.balances[entry.InfluencerID] = updated
	return true, nil
}

func (s *Store) ListEntries(_ context.Context, influencerID string, limit int) ([]entities.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.LedgerEntry, 0)
	for _, entry := range s.entries {
		if entry.InfluencerID != strings.TrimSpace(influencerID) {
			continue
		}
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
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

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
