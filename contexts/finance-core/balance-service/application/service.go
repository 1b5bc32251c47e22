package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"vantage/contexts/finance-core/balance-service/domain/entities"
	domainerrors "vantage/contexts/finance-core/balance-service/domain/errors"
	"vantage/contexts/finance-core/balance-service/ports"
	"vantage/internal/shared/identity"
)

// Service is the only write path to balances. Reserve and Credit are invoked
// by the workflow dispatcher with the change's idempotency key, so retried
// dispatches are absorbed by the ledger instead of paying twice.
type Service struct {
	Balances ports.BalanceRepository
	Guard    identity.Guard
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

// Reserve moves amount into pending (and total earnings) when an application
// is approved.
func (s Service) Reserve(ctx context.Context, influencerID string, amount float64, idempotencyKey string, reference string) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	return s.apply(ctx, entities.LedgerEntry{
		InfluencerID:   strings.TrimSpace(influencerID),
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
		Kind:           entities.EntryReserve,
		Amount:         amount,
		Reference:      strings.TrimSpace(reference),
	})
}

// Credit moves amount from pending to available when a submission is
// approved. Exactly once per idempotency key.
func (s Service) Credit(ctx context.Context, influencerID string, amount float64, idempotencyKey string, reference string) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	return s.apply(ctx, entities.LedgerEntry{
		InfluencerID:   strings.TrimSpace(influencerID),
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
		Kind:           entities.EntryCredit,
		Amount:         amount,
		Reference:      strings.TrimSpace(reference),
	})
}

// AdminAdjust applies a manual correction to the available balance. Admin
// only; the unguarded upsert this replaces is gone.
func (s Service) AdminAdjust(ctx context.Context, actor identity.Actor, influencerID string, amount float64, notes string) error {
	decision := s.Guard.Authorize(ctx, actor, identity.ActionAdjustBalance, identity.Target{
		Entity:       "balance",
		InfluencerID: strings.TrimSpace(influencerID),
	})
	if err := decision.Err(); err != nil {
		return err
	}
	if amount == 0 {
		return domainerrors.ErrInvalidAmount
	}

	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return s.apply(ctx, entities.LedgerEntry{
		InfluencerID:   strings.TrimSpace(influencerID),
		IdempotencyKey: fmt.Sprintf("adjust:%s", entryID),
		Kind:           entities.EntryAdjust,
		Amount:         amount,
		Reference:      strings.TrimSpace(notes),
		Notes:          strings.TrimSpace(notes),
	})
}

func (s Service) GetBalance(ctx context.Context, actor identity.Actor, influencerID string) (entities.Balance, error) {
	decision := s.Guard.Authorize(ctx, actor, identity.ActionView, identity.Target{
		Entity:       "balance",
		InfluencerID: strings.TrimSpace(influencerID),
	})
	if err := decision.Err(); err != nil {
		return entities.Balance{}, err
	}
	return s.Balances.GetBalance(ctx, strings.TrimSpace(influencerID))
}

func (s Service) apply(ctx context.Context, entry entities.LedgerEntry) error {
	entryID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	entry.EntryID = entryID
	entry.CreatedAt = s.Clock.Now().UTC()

	applied, err := s.Balances.ApplyEntry(ctx, entry)
	if err != nil {
		return err
	}

	logger := ResolveLogger(s.Logger)
	if !applied {
		logger.Info("duplicate ledger entry absorbed",
			"event", "balance_entry_absorbed",
			"module", "finance-core/balance-service",
			"layer", "application",
			"influencer_id", entry.InfluencerID,
			"idempotency_key", entry.IdempotencyKey,
			"kind", entry.Kind,
		)
		return nil
	}
	logger.Info("balance entry applied",
		"event", "balance_entry_applied",
		"module", "finance-core/balance-service",
		"layer", "application",
		"influencer_id", entry.InfluencerID,
		"idempotency_key", entry.IdempotencyKey,
		"kind", entry.Kind,
		"amount", entry.Amount,
	)
	return nil
}
