package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"vantage/contexts/marketplace/campaign-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/campaign-service/domain/errors"
	"vantage/contexts/marketplace/campaign-service/ports"
	"vantage/internal/shared/workflow"

	"github.com/google/uuid"
)

type favoriteKey struct {
	CampaignID string
	UserID     string
}

type Store struct {
	mu sync.RWMutex

	campaigns map[string]entities.Campaign
	favorites map[favoriteKey]struct{}
	stateLog  []entities.StateHistory
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns: campaigns,
		favorites: make(map[favoriteKey]struct{}),
		stateLog:  make([]entities.StateHistory, 0),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.BusinessID != "" && campaign.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) UpdateCampaignStatusCAS(_ context.Context, campaign entities.Campaign, fromStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.campaigns[campaign.CampaignID]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	if current.Status != fromStatus {
		return domainerrors.ErrStatusConflict
	}
	// Counters are owned by the store; the caller's copy may be stale.
	campaign.ViewCount = current.ViewCount
	campaign.FavoriteCount = current.FavoriteCount
	campaign.ApplicationCount = current.ApplicationCount
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) IncrementViewCount(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.ViewCount++
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) AddFavorite(_ context.Context, campaignID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	key := favoriteKey{CampaignID: campaign.CampaignID, UserID: strings.TrimSpace(userID)}
	if _, exists := s.favorites[key]; exists {
		return domainerrors.ErrAlreadyFavorited
	}
	s.favorites[key] = struct{}{}
	campaign.FavoriteCount++
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) RemoveFavorite(_ context.Context, campaignID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	key := favoriteKey{CampaignID: campaign.CampaignID, UserID: strings.TrimSpace(userID)}
	if _, exists := s.favorites[key]; !exists {
		return domainerrors.ErrFavoriteNotFound
	}
	delete(s.favorites, key)
	if campaign.FavoriteCount > 0 {
		campaign.FavoriteCount--
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) IncrementApplicationCount(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	campaign.ApplicationCount++
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

// StateLog returns a copy of the recorded state history for assertions.
func (s *Store) StateLog() []entities.StateHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.StateHistory(nil), s.stateLog...)
}

func (s *Store) CloseCampaignsPastDeadline(_ context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed := make([]string, 0)
	timestamp := now.UTC()
	for id, campaign := range s.campaigns {
		if len(closed) >= limit {
			break
		}
		if campaign.Status != workflow.CampaignActive {
			continue
		}
		if campaign.DeadlineAt == nil || !campaign.DeadlineAt.Before(timestamp) {
			continue
		}
		campaign.Status = workflow.CampaignClosed
		campaign.UpdatedAt = timestamp
		closedAt := timestamp
		campaign.ClosedAt = &closedAt
		s.campaigns[id] = campaign

		s.stateLog = append(s.stateLog, entities.StateHistory{
			HistoryID:    uuid.NewString(),
			CampaignID:   id,
			FromStatus:   workflow.CampaignActive,
			ToStatus:     workflow.CampaignClosed,
			ChangedBy:    "system",
			ChangeReason: "deadline_reached",
			CreatedAt:    timestamp,
		})
		closed = append(closed, id)
	}
	sort.Strings(closed)
	return closed, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
