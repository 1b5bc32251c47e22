package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authapp "vantage/contexts/identity-access/authguard/application"
	"vantage/contexts/marketplace/campaign-service/adapters/memory"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/campaign-service/domain/errors"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

func seedCampaign(status string) entities.Campaign {
	now := time.Now().UTC()
	return entities.Campaign{
		CampaignID:          "camp-1",
		BusinessID:          "biz-1",
		Title:               "Launch clips",
		Description:         "Short-form clips for the launch week",
		Niche:               "gaming",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func newChangeStatusUseCase(store *memory.Store) ChangeStatusUseCase {
	return ChangeStatusUseCase{
		Campaigns: store,
		History:   store,
		Guard:     authapp.Service{},
		Table:     workflow.DefaultTable(),
		Clock:     store,
		IDGen:     store,
	}
}

func TestChangeStatusActivationStampsLaunch(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignDraft)})
	uc := newChangeStatusUseCase(store)

	campaign, err := uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignActive, campaign.Status)
	require.NotNil(t, campaign.LaunchedAt)
	assert.Nil(t, campaign.ClosedAt)

	history := store.StateLog()
	require.Len(t, history, 1)
	assert.Equal(t, workflow.CampaignDraft, history[0].FromStatus)
	assert.Equal(t, workflow.CampaignActive, history[0].ToStatus)
}

func TestChangeStatusCloseStampsClosedAt(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignActive)})
	uc := newChangeStatusUseCase(store)

	campaign, err := uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		Target:     workflow.CampaignClosed,
		Reason:     "budget exhausted",
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignClosed, campaign.Status)
	require.NotNil(t, campaign.ClosedAt)
	assert.Equal(t, "budget exhausted", store.StateLog()[0].ChangeReason)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignActive)})
	uc := newChangeStatusUseCase(store)

	campaign, err := uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignActive, campaign.Status)
	assert.Nil(t, campaign.LaunchedAt)
	assert.Empty(t, store.StateLog())
}

func TestChangeStatusNoOpStillGuarded(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignActive)})
	uc := newChangeStatusUseCase(store)

	// A retry of the current status is only a no-op for callers who could
	// have requested the transition.
	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{},
		Target:     workflow.CampaignActive,
	})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)

	_, err = uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-2", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)
	assert.Empty(t, store.StateLog())
}

func TestChangeStatusOwnershipAndTable(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignClosed)})
	uc := newChangeStatusUseCase(store)

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-2", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "camp-1",
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	assert.ErrorIs(t, err, workflow.ErrTerminalStatus)

	_, err = uc.Execute(context.Background(), ChangeStatusCommand{
		CampaignID: "ghost",
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		Target:     workflow.CampaignActive,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCampaignNotFound)
}

func TestCreateCampaignValidation(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateCampaignUseCase{Campaigns: store, Clock: store, IDGen: store}

	business := identity.Actor{ID: "biz-1", Role: identity.RoleBusiness}
	campaign, err := uc.Execute(context.Background(), CreateCampaignCommand{
		Actor:               business,
		Title:               "Launch clips",
		Description:         "Short-form clips for the launch week",
		Niche:               "gaming",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignDraft, campaign.Status)
	assert.Equal(t, "biz-1", campaign.BusinessID)

	_, err = uc.Execute(context.Background(), CreateCampaignCommand{
		Actor:               business,
		Title:               "x",
		Description:         "too short a title",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCampaignInput)

	_, err = uc.Execute(context.Background(), CreateCampaignCommand{
		Actor:               business,
		Title:               "Payout too large",
		Description:         "payout exceeds budget",
		BudgetTotal:         100,
		PayoutPerSubmission: 200,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCampaignInput)

	_, err = uc.Execute(context.Background(), CreateCampaignCommand{
		Actor: identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		Title: "Influencers cannot create campaigns",
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestTrackEngagement(t *testing.T) {
	store := memory.NewStore([]entities.Campaign{seedCampaign(workflow.CampaignActive)})
	uc := TrackEngagementUseCase{Engagement: store}
	ctx := context.Background()

	require.NoError(t, uc.TrackView(ctx, "camp-1"))
	require.NoError(t, uc.TrackView(ctx, "camp-1"))

	influencer := identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}
	require.NoError(t, uc.Favorite(ctx, influencer, "camp-1"))
	assert.ErrorIs(t, uc.Favorite(ctx, influencer, "camp-1"), domainerrors.ErrAlreadyFavorited)

	campaign, err := store.GetCampaign(ctx, "camp-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), campaign.ViewCount)
	assert.Equal(t, int64(1), campaign.FavoriteCount)

	require.NoError(t, uc.Unfavorite(ctx, influencer, "camp-1"))
	assert.ErrorIs(t, uc.Unfavorite(ctx, influencer, "camp-1"), domainerrors.ErrFavoriteNotFound)

	assert.ErrorIs(t, uc.Favorite(ctx, identity.Actor{}, "camp-1"), identity.ErrUnauthenticated)
}
