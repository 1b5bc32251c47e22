package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrSideEffectFailed marks a dependent write that failed after the primary
// status change committed. Callers surface it distinctly from a rejected
// transition: the entity already moved, only the effect needs a retry.
var ErrSideEffectFailed = errors.New("side effect failed after committed transition")

// Change is the (oldStatus, newStatus, entity) triple handed to the
// dispatcher once a transition has been persisted.
type Change struct {
	Entity        EntityType
	EntityID      string
	From          string
	To            string
	ActorID       string
	ActorRole     string
	CampaignID    string
	ApplicationID string
	BusinessID    string
	InfluencerID  string
	Amount        float64
	Notes         string
	OccurredAt    time.Time
}

// IdempotencyKey is the stable key effects use so a retried dispatch never
// duplicates a financial or state effect.
func (c Change) IdempotencyKey() string {
	return fmt.Sprintf("%s:%s:%s", c.Entity, c.EntityID, c.To)
}

type effect struct {
	name  string
	apply func(context.Context, Change) error
}

// Dispatcher runs the secondary writes associated with an accepted
// transition. Effects are registered per (entity type, new status) and must
// be idempotent: dispatch is at-least-once, keyed by Change.IdempotencyKey.
type Dispatcher struct {
	effects map[EntityType]map[string][]effect
	logger  *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		effects: make(map[EntityType]map[string][]effect),
		logger:  logger,
	}
}

func (d *Dispatcher) Register(entity EntityType, to string, name string, apply func(context.Context, Change) error) {
	byStatus, ok := d.effects[entity]
	if !ok {
		byStatus = make(map[string][]effect)
		d.effects[entity] = byStatus
	}
	byStatus[to] = append(byStatus[to], effect{name: name, apply: apply})
}

// Dispatch applies every registered effect for the change. The first failure
// aborts the run and is logged with enough context to retry just the effect
// step; effects already applied stay applied (they are idempotent).
func (d *Dispatcher) Dispatch(ctx context.Context, change Change) error {
	byStatus, ok := d.effects[change.Entity]
	if !ok {
		return nil
	}
	for _, item := range byStatus[change.To] {
		if err := item.apply(ctx, change); err != nil {
			d.logger.Error("side effect failed",
				"event", "side_effect_failed",
				"module", "internal/shared/workflow",
				"layer", "application",
				"entity", string(change.Entity),
				"entity_id", change.EntityID,
				"from_status", change.From,
				"to_status", change.To,
				"effect", item.name,
				"idempotency_key", change.IdempotencyKey(),
				"error", err.Error(),
			)
			return fmt.Errorf("%w: %s: %v", ErrSideEffectFailed, item.name, err)
		}
	}
	return nil
}
