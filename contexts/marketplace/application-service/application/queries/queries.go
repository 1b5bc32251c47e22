package queries

import (
	"context"
	"log/slog"
	"strings"

	"vantage/contexts/marketplace/application-service/domain/entities"
	"vantage/contexts/marketplace/application-service/ports"
	"vantage/internal/shared/identity"
)

type QueryUseCase struct {
	Applications ports.ApplicationRepository
	Guard        identity.Guard
	Logger       *slog.Logger
}

func (uc QueryUseCase) GetApplication(ctx context.Context, actor identity.Actor, applicationID string) (entities.Application, error) {
	item, err := uc.Applications.GetApplication(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		return entities.Application{}, err
	}
	decision := uc.Guard.Authorize(ctx, actor, identity.ActionView, identity.Target{
		Entity:       "application",
		BusinessID:   item.BusinessID,
		InfluencerID: item.InfluencerID,
	})
	if err := decision.Err(); err != nil {
		return entities.Application{}, err
	}
	return item, nil
}

// ListApplications narrows the filter to what the actor may see: businesses
// get applications on their campaigns, influencers their own, admin all.
func (uc QueryUseCase) ListApplications(ctx context.Context, actor identity.Actor, filter ports.ApplicationFilter) ([]entities.Application, error) {
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
	filter.CampaignID = strings.TrimSpace(filter.CampaignID)
	filter.Status = strings.TrimSpace(filter.Status)
	return uc.Applications.ListApplications(ctx, filter)
}
