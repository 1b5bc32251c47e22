package queries

import (
	"context"
	"log/slog"
	"strings"

	"vantage/contexts/marketplace/submission-service/domain/entities"
	"vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/shared/identity"
)

type QueryUseCase struct {
	Submissions ports.SubmissionRepository
	Guard       identity.Guard
	Logger      *slog.Logger
}

func (uc QueryUseCase) GetSubmission(ctx context.Context, actor identity.Actor, submissionID string) (entities.Submission, error) {
	item, err := uc.Submissions.GetSubmission(ctx, strings.TrimSpace(submissionID))
	if err != nil {
		return entities.Submission{}, err
	}
	decision := uc.Guard.Authorize(ctx, actor, identity.ActionView, identity.Target{
		Entity:       "submission",
		BusinessID:   item.BusinessID,
		InfluencerID: item.InfluencerID,
	})
	if err := decision.Err(); err != nil {
		return entities.Submission{}, err
	}
	return item, nil
}

// ListSubmissions narrows the filter to what the actor may see, mirroring
// the application listing rules.
func (uc QueryUseCase) ListSubmissions(ctx context.Context, actor identity.Actor, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	if actor.IsZero() {
		return nil, identity.ErrUnauthenticated
	}
	switch {
	case actor.Elevated():
		// Unrestricted.
	case actor.Role == identity.RoleBusiness:
		filter.BusinessID = actor.ID
	case actor.Role == identity.RoleInfluencer:
		filter.InfluencerID = actor.ID
	default:
		return nil, identity.ErrForbidden
	}
	filter.ApplicationID = strings.TrimSpace(filter.ApplicationID)
	filter.CampaignID = strings.TrimSpace(filter.CampaignID)
	filter.Status = strings.TrimSpace(filter.Status)
	return uc.Submissions.ListSubmissions(ctx, filter)
}
