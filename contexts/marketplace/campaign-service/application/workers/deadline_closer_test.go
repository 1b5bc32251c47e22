package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/contexts/marketplace/campaign-service/adapters/memory"
	"vantage/contexts/marketplace/campaign-service/domain/entities"
	"vantage/internal/shared/workflow"
)

func campaignWithDeadline(id string, status string, deadline time.Time) entities.Campaign {
	now := time.Now().UTC().Add(-24 * time.Hour)
	return entities.Campaign{
		CampaignID:          id,
		BusinessID:          "biz-1",
		Title:               "Launch clips",
		Description:         "Short-form clips for the launch week",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
		DeadlineAt:          &deadline,
		Status:              status,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func TestDeadlineCloserClosesExpiredActiveCampaigns(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)
	store := memory.NewStore([]entities.Campaign{
		campaignWithDeadline("camp-expired", workflow.CampaignActive, past),
		campaignWithDeadline("camp-running", workflow.CampaignActive, future),
		campaignWithDeadline("camp-draft", workflow.CampaignDraft, past),
	})

	job := DeadlineCloser{Deadlines: store, Clock: store, BatchSize: 10}
	require.NoError(t, job.RunOnce(context.Background()))

	expired, err := store.GetCampaign(context.Background(), "camp-expired")
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignClosed, expired.Status)
	require.NotNil(t, expired.ClosedAt)

	running, err := store.GetCampaign(context.Background(), "camp-running")
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignActive, running.Status)

	// Draft campaigns never auto-close; only active ones race the deadline.
	draft, err := store.GetCampaign(context.Background(), "camp-draft")
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignDraft, draft.Status)

	history := store.StateLog()
	require.Len(t, history, 1)
	assert.Equal(t, "system", history[0].ChangedBy)
	assert.Equal(t, "deadline_reached", history[0].ChangeReason)

	// Idempotent across sweeps: the closed campaign is no longer eligible.
	require.NoError(t, job.RunOnce(context.Background()))
	assert.Len(t, store.StateLog(), 1)
}

func TestDeadlineCloserDisabledFlag(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	store := memory.NewStore([]entities.Campaign{
		campaignWithDeadline("camp-expired", workflow.CampaignActive, past),
	})

	job := DeadlineCloser{Deadlines: store, Clock: store, Disabled: true}
	require.NoError(t, job.RunOnce(context.Background()))

	campaign, err := store.GetCampaign(context.Background(), "camp-expired")
	require.NoError(t, err)
	assert.Equal(t, workflow.CampaignActive, campaign.Status)
}
