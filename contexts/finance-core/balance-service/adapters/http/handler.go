package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "vantage/contexts/finance-core/balance-service/application"
	"vantage/contexts/finance-core/balance-service/domain/entities"
	httptransport "vantage/contexts/finance-core/balance-service/transport/http"
	"vantage/internal/shared/identity"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetMyBalanceHandler(ctx context.Context, actor identity.Actor) (httptransport.GetBalanceResponse, error) {
	balance, err := h.Service.GetBalance(ctx, actor, actor.ID)
	if err != nil {
		return httptransport.GetBalanceResponse{}, err
	}
	return httptransport.GetBalanceResponse{Balance: mapBalance(balance)}, nil
}

func (h Handler) AdjustHandler(
	ctx context.Context,
	actor identity.Actor,
	req httptransport.AdjustRequest,
) (httptransport.AdjustResponse, error) {
	if err := h.Service.AdminAdjust(ctx, actor, req.InfluencerID, req.Amount, req.Notes); err != nil {
		return httptransport.AdjustResponse{}, err
	}
	balance, err := h.Service.GetBalance(ctx, actor, req.InfluencerID)
	if err != nil {
		return httptransport.AdjustResponse{}, err
	}
	return httptransport.AdjustResponse{Balance: mapBalance(balance)}, nil
}

func mapBalance(item entities.Balance) httptransport.BalanceDTO {
	result := httptransport.BalanceDTO{
		InfluencerID:  item.InfluencerID,
		Available:     item.Available,
		Pending:       item.Pending,
		TotalEarnings: item.TotalEarnings,
		Withdrawn:     item.Withdrawn,
	}
	if !item.UpdatedAt.IsZero() {
		result.UpdatedAt = item.UpdatedAt.Format(time.RFC3339)
	}
	return result
}
