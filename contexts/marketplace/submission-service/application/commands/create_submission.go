package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "vantage/contexts/marketplace/submission-service/application"
	"vantage/contexts/marketplace/submission-service/domain/entities"
	domainerrors "vantage/contexts/marketplace/submission-service/domain/errors"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type CreateSubmissionCommand struct {
	Actor         identity.Actor
	ApplicationID string
	ContentURL    string
	MediaRefs     []string
	Notes         string
	AutoApproveAt *string
}

// CreateSubmissionUseCase accepts content against an approved application.
// Only the application's influencer may submit; re-submission after a
// revision request goes through the transition engine instead.
type CreateSubmissionUseCase struct {
	Submissions  ports.SubmissionRepository
	Applications ports.ApplicationDirectory
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Logger       *slog.Logger
}

func (uc CreateSubmissionUseCase) Execute(ctx context.Context, cmd CreateSubmissionCommand) (entities.Submission, error) {
	if cmd.Actor.IsZero() {
		return entities.Submission{}, identity.ErrUnauthenticated
	}

	summary, err := uc.Applications.GetApplicationSummary(ctx, strings.TrimSpace(cmd.ApplicationID))
	if err != nil {
		return entities.Submission{}, err
	}
	if !cmd.Actor.Elevated() {
		if cmd.Actor.Role != identity.RoleInfluencer || cmd.Actor.ID != summary.InfluencerID {
			return entities.Submission{}, identity.ErrForbidden
		}
	}
	if summary.Status != workflow.ApplicationApproved {
		return entities.Submission{}, domainerrors.ErrApplicationNotApproved
	}

	now := uc.Clock.Now().UTC()
	submissionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}

	item := entities.Submission{
		SubmissionID:  submissionID,
		ApplicationID: summary.ApplicationID,
		CampaignID:    summary.CampaignID,
		BusinessID:    summary.BusinessID,
		InfluencerID:  summary.InfluencerID,
		ContentURL:    strings.TrimSpace(cmd.ContentURL),
		MediaRefs:     append([]string(nil), cmd.MediaRefs...),
		Notes:         strings.TrimSpace(cmd.Notes),
		AgreedAmount:  summary.AgreedAmount,
		Status:        workflow.SubmissionSubmitted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if deadline, err := parseOptionalTime(cmd.AutoApproveAt); err != nil {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	} else if deadline != nil {
		item.AutoApproveAt = deadline
	}
	if !item.ValidateBasics() {
		return entities.Submission{}, domainerrors.ErrInvalidSubmissionInput
	}

	if err := uc.Submissions.CreateSubmission(ctx, item); err != nil {
		return entities.Submission{}, err
	}

	application.ResolveLogger(uc.Logger).Info("submission created",
		"event", "submission_created",
		"module", "marketplace/submission-service",
		"layer", "application",
		"submission_id", item.SubmissionID,
		"application_id", item.ApplicationID,
		"influencer_id", item.InfluencerID,
	)
	return item, nil
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}
