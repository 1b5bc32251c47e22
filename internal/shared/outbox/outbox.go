package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"vantage/internal/shared/events"
)

// Transactional outbox contract shared by contexts: repositories append
// envelopes in the same transaction as state changes, the relay worker drains
// pending rows and publishes them.

type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type Writer interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type Repository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Relay drains one outbox and publishes to a single topic. Publishing is
// at-least-once: a crash between Publish and MarkOutboxPublished re-sends the
// row, consumers dedup on EventID.
type Relay struct {
	Outbox    Repository
	Publisher Publisher
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r Relay) RunOnce(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	items, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list failed",
			"event", "outbox_list_failed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"topic", r.Topic,
			"error", err.Error(),
		)
		return err
	}

	for _, item := range items {
		var envelope events.Envelope
		if err := json.Unmarshal(item.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "outbox_decode_failed",
				"module", "internal/shared/outbox",
				"layer", "worker",
				"outbox_id", item.OutboxID,
				"error", err.Error(),
			)
			// An undecodable payload never becomes publishable; mark it
			// published so one poison row cannot block the drain forever.
			if err := r.Outbox.MarkOutboxPublished(ctx, item.OutboxID, time.Now().UTC()); err != nil {
				return err
			}
			continue
		}
		if err := r.Publisher.Publish(ctx, r.Topic, envelope); err != nil {
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, item.OutboxID, time.Now().UTC()); err != nil {
			return err
		}
	}

	if len(items) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "outbox_relay_cycle_completed",
			"module", "internal/shared/outbox",
			"layer", "worker",
			"topic", r.Topic,
			"published_count", len(items),
		)
	}
	return nil
}
