package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authapp "vantage/contexts/identity-access/authguard/application"
	"vantage/contexts/marketplace/application-service/adapters/memory"
	domainerrors "vantage/contexts/marketplace/application-service/domain/errors"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type fakeCampaignDirectory struct {
	summary  ports.CampaignSummary
	err      error
	recorded int
}

func (f *fakeCampaignDirectory) GetCampaignSummary(context.Context, string) (ports.CampaignSummary, error) {
	return f.summary, f.err
}

func (f *fakeCampaignDirectory) RecordApplication(context.Context, string) error {
	f.recorded++
	return nil
}

func activeCampaignDirectory() *fakeCampaignDirectory {
	return &fakeCampaignDirectory{summary: ports.CampaignSummary{
		CampaignID:          "camp-1",
		BusinessID:          "biz-1",
		Status:              workflow.CampaignActive,
		PayoutPerSubmission: 25,
	}}
}

func newApplyUseCase(store *memory.Store, campaigns ports.CampaignDirectory) ApplyUseCase {
	return ApplyUseCase{
		Applications: store,
		Campaigns:    campaigns,
		Guard:        authapp.Service{},
		Outbox:       store,
		Clock:        store,
		IDGen:        store,
	}
}

func TestApplyCreatesPendingApplication(t *testing.T) {
	store := memory.NewStore(nil)
	campaigns := activeCampaignDirectory()
	uc := newApplyUseCase(store, campaigns)

	item, err := uc.Execute(context.Background(), ApplyCommand{
		Actor:      identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		CampaignID: "camp-1",
		Pitch:      "short clips, daily posting",
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.ApplicationPending, item.Status)
	assert.Equal(t, "biz-1", item.BusinessID)
	assert.Equal(t, "inf-1", item.InfluencerID)
	// The agreed amount is frozen from the campaign payout at apply time.
	assert.Equal(t, 25.0, item.AgreedAmount)
	assert.Equal(t, 1, campaigns.recorded)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "application.created", pending[0].EventType)
}

func TestApplyRejectsDuplicatePair(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newApplyUseCase(store, activeCampaignDirectory())

	actor := identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer}
	_, err := uc.Execute(context.Background(), ApplyCommand{Actor: actor, CampaignID: "camp-1", Pitch: "first"})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), ApplyCommand{Actor: actor, CampaignID: "camp-1", Pitch: "second"})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateApplication)
}

func TestApplyRequiresActiveCampaign(t *testing.T) {
	store := memory.NewStore(nil)
	campaigns := activeCampaignDirectory()
	campaigns.summary.Status = workflow.CampaignDraft
	uc := newApplyUseCase(store, campaigns)

	_, err := uc.Execute(context.Background(), ApplyCommand{
		Actor:      identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		CampaignID: "camp-1",
		Pitch:      "pitch",
	})
	assert.ErrorIs(t, err, identity.ErrInvalidState)
	assert.Zero(t, campaigns.recorded)
}

func TestApplyRejectsNonInfluencers(t *testing.T) {
	store := memory.NewStore(nil)
	uc := newApplyUseCase(store, activeCampaignDirectory())

	_, err := uc.Execute(context.Background(), ApplyCommand{
		Actor:      identity.Actor{ID: "biz-1", Role: identity.RoleBusiness},
		CampaignID: "camp-1",
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = uc.Execute(context.Background(), ApplyCommand{CampaignID: "camp-1"})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}
