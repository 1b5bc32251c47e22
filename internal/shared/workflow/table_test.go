package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableCampaignTransitions(t *testing.T) {
	table := DefaultTable()

	require.NoError(t, table.Validate(EntityCampaign, CampaignDraft, CampaignActive))
	require.NoError(t, table.Validate(EntityCampaign, CampaignDraft, CampaignClosed))
	require.NoError(t, table.Validate(EntityCampaign, CampaignActive, CampaignClosed))

	err := table.Validate(EntityCampaign, CampaignActive, CampaignDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestValidateSameStatusIsNoOp(t *testing.T) {
	table := DefaultTable()

	// Repeating the current status is legal even on terminal statuses, so
	// client retries never error.
	require.NoError(t, table.Validate(EntityCampaign, CampaignClosed, CampaignClosed))
	require.NoError(t, table.Validate(EntityApplication, ApplicationRejected, ApplicationRejected))
	assert.True(t, table.Allowed(EntitySubmission, SubmissionApproved, SubmissionApproved))
}

func TestValidateTerminalStatus(t *testing.T) {
	table := DefaultTable()

	err := table.Validate(EntityCampaign, CampaignClosed, CampaignActive)
	assert.ErrorIs(t, err, ErrTerminalStatus)

	err = table.Validate(EntityApplication, ApplicationWithdrawn, ApplicationPending)
	assert.ErrorIs(t, err, ErrTerminalStatus)

	err = table.Validate(EntitySubmission, SubmissionAutoApproved, SubmissionRejected)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestValidateUnknownStatusAndEntity(t *testing.T) {
	table := DefaultTable()

	assert.ErrorIs(t, table.Validate(EntityCampaign, "archived", CampaignClosed), ErrUnknownStatus)
	assert.ErrorIs(t, table.Validate(EntityCampaign, CampaignDraft, "archived"), ErrUnknownStatus)
	assert.ErrorIs(t, table.Validate(EntityType("payout"), "a", "b"), ErrUnknownEntity)
}

func TestApplicationRevisionLoop(t *testing.T) {
	table := DefaultTable()

	require.NoError(t, table.Validate(EntityApplication, ApplicationInReview, ApplicationRevisionRequested))
	require.NoError(t, table.Validate(EntityApplication, ApplicationRevisionRequested, ApplicationInReview))
	require.NoError(t, table.Validate(EntityApplication, ApplicationApproved, ApplicationCompleted))
	assert.ErrorIs(t, table.Validate(EntityApplication, ApplicationApproved, ApplicationRejected), ErrInvalidTransition)
}

func TestSubmissionResubmitAfterRevision(t *testing.T) {
	table := DefaultTable()

	require.NoError(t, table.Validate(EntitySubmission, SubmissionSubmitted, SubmissionRevisionRequested))
	require.NoError(t, table.Validate(EntitySubmission, SubmissionRevisionRequested, SubmissionSubmitted))
	assert.ErrorIs(t, table.Validate(EntitySubmission, SubmissionRevisionRequested, SubmissionApproved), ErrInvalidTransition)
}

func TestLoadTableReplacesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transitions.json")
	payload := `{
		"campaign": {
			"draft": ["active"],
			"active": ["paused", "closed"],
			"paused": ["active", "closed"],
			"closed": []
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)

	require.NoError(t, table.Validate(EntityCampaign, "active", "paused"))
	require.NoError(t, table.Validate(EntityCampaign, "paused", "active"))
	// Entities absent from the file are gone entirely; the file is the
	// single source of truth.
	assert.ErrorIs(t, table.Validate(EntityApplication, ApplicationPending, ApplicationApproved), ErrUnknownEntity)
	// The default draft -> closed shortcut no longer exists.
	assert.ErrorIs(t, table.Validate(EntityCampaign, "draft", "closed"), ErrInvalidTransition)
}

func TestLoadTableRejectsBadInput(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	_, err = LoadTable(path)
	assert.Error(t, err)
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	table := DefaultTable()

	next := table.NextStatuses(EntityCampaign, CampaignDraft)
	require.Len(t, next, 2)
	next[0] = "mutated"

	assert.Equal(t, []string{CampaignActive, CampaignClosed}, table.NextStatuses(EntityCampaign, CampaignDraft))
}
