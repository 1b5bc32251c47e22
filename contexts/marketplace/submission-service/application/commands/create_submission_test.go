package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/contexts/marketplace/submission-service/adapters/memory"
	domainerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type fakeApplicationDirectory struct {
	summary ports.ApplicationSummary
	err     error
}

func (f fakeApplicationDirectory) GetApplicationSummary(context.Context, string) (ports.ApplicationSummary, error) {
	return f.summary, f.err
}

func approvedApplication() ports.ApplicationSummary {
	return ports.ApplicationSummary{
		ApplicationID: "app-1",
		CampaignID:    "camp-1",
		BusinessID:    "biz-1",
		InfluencerID:  "inf-1",
		Status:        workflow.ApplicationApproved,
		AgreedAmount:  25,
	}
}

func TestCreateSubmission(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateSubmissionUseCase{
		Submissions:  store,
		Applications: fakeApplicationDirectory{summary: approvedApplication()},
		Clock:        store,
		IDGen:        store,
	}

	deadline := "2026-09-04T00:00:00Z"
	item, err := uc.Execute(context.Background(), CreateSubmissionCommand{
		Actor:         identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		ApplicationID: "app-1",
		ContentURL:    "https://cdn.example.com/clip-1.mp4",
		MediaRefs:     []string{"media/clip-1-thumb.jpg"},
		AutoApproveAt: &deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.SubmissionSubmitted, item.Status)
	assert.Equal(t, 25.0, item.AgreedAmount)
	require.NotNil(t, item.AutoApproveAt)
	assert.Equal(t, "2026-09-04T00:00:00Z", item.AutoApproveAt.Format("2006-01-02T15:04:05Z07:00"))
}

func TestCreateSubmissionOnlyForOwnApprovedApplication(t *testing.T) {
	store := memory.NewStore(nil)

	uc := CreateSubmissionUseCase{
		Submissions:  store,
		Applications: fakeApplicationDirectory{summary: approvedApplication()},
		Clock:        store,
		IDGen:        store,
	}

	_, err := uc.Execute(context.Background(), CreateSubmissionCommand{
		Actor:         identity.Actor{ID: "inf-2", Role: identity.RoleInfluencer},
		ApplicationID: "app-1",
		ContentURL:    "https://cdn.example.com/clip.mp4",
	})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = uc.Execute(context.Background(), CreateSubmissionCommand{
		ApplicationID: "app-1",
		ContentURL:    "https://cdn.example.com/clip.mp4",
	})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)

	pending := approvedApplication()
	pending.Status = workflow.ApplicationPending
	uc.Applications = fakeApplicationDirectory{summary: pending}
	_, err = uc.Execute(context.Background(), CreateSubmissionCommand{
		Actor:         identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		ApplicationID: "app-1",
		ContentURL:    "https://cdn.example.com/clip.mp4",
	})
	assert.ErrorIs(t, err, domainerrors.ErrApplicationNotApproved)
}

func TestCreateSubmissionValidatesInput(t *testing.T) {
	store := memory.NewStore(nil)
	uc := CreateSubmissionUseCase{
		Submissions:  store,
		Applications: fakeApplicationDirectory{summary: approvedApplication()},
		Clock:        store,
		IDGen:        store,
	}

	_, err := uc.Execute(context.Background(), CreateSubmissionCommand{
		Actor:         identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		ApplicationID: "app-1",
		ContentURL:    "   ",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)

	bad := "not-a-timestamp"
	_, err = uc.Execute(context.Background(), CreateSubmissionCommand{
		Actor:         identity.Actor{ID: "inf-1", Role: identity.RoleInfluencer},
		ApplicationID: "app-1",
		ContentURL:    "https://cdn.example.com/clip.mp4",
		AutoApproveAt: &bad,
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSubmissionInput)
}
