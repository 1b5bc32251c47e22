package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vantage/internal/shared/events"
)

type fakeOutbox struct {
	rows      []Message
	published map[string]bool
}

func (f *fakeOutbox) ListPendingOutbox(_ context.Context, limit int) ([]Message, error) {
	items := make([]Message, 0)
	for _, row := range f.rows {
		if f.published[row.OutboxID] {
			continue
		}
		items = append(items, row)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (f *fakeOutbox) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	if f.published == nil {
		f.published = make(map[string]bool)
	}
	f.published[outboxID] = true
	return nil
}

type capturePublisher struct {
	events []events.Envelope
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event events.Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func pendingRow(id string, payload []byte) Message {
	return Message{
		OutboxID:     id,
		EventType:    "application.status_changed",
		PartitionKey: "app-1",
		Payload:      payload,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestRelayPublishesPendingRows(t *testing.T) {
	envelope, err := events.New("evt-1", "application.status_changed", "application-service", "app-1",
		time.Now().UTC(), map[string]any{"application_id": "app-1"})
	require.NoError(t, err)
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)

	repo := &fakeOutbox{rows: []Message{pendingRow("out-1", payload)}}
	publisher := &capturePublisher{}
	relay := Relay{Outbox: repo, Publisher: publisher, Topic: "application-events"}

	require.NoError(t, relay.RunOnce(context.Background()))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "evt-1", publisher.events[0].EventID)
	assert.True(t, repo.published["out-1"])

	// A second cycle has nothing left to send.
	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.events, 1)
}

func TestRelaySkipsUndecodableRow(t *testing.T) {
	envelope, err := events.New("evt-2", "application.status_changed", "application-service", "app-2",
		time.Now().UTC(), nil)
	require.NoError(t, err)
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)

	repo := &fakeOutbox{rows: []Message{
		pendingRow("out-poison", []byte("{not json")),
		pendingRow("out-good", payload),
	}}
	publisher := &capturePublisher{}
	relay := Relay{Outbox: repo, Publisher: publisher, Topic: "application-events"}

	// The poison row is retired so the rest of the batch still drains.
	require.NoError(t, relay.RunOnce(context.Background()))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "evt-2", publisher.events[0].EventID)
	assert.True(t, repo.published["out-poison"])
	assert.True(t, repo.published["out-good"])
}

func TestRelayStopsOnPublishError(t *testing.T) {
	envelope, err := events.New("evt-3", "submission.status_changed", "submission-service", "sub-1",
		time.Now().UTC(), nil)
	require.NoError(t, err)
	payload, err := json.Marshal(envelope)
	require.NoError(t, err)

	repo := &fakeOutbox{rows: []Message{pendingRow("out-1", payload)}}
	relay := Relay{
		Outbox:    repo,
		Publisher: &capturePublisher{err: errors.New("broker down")},
		Topic:     "submission-events",
	}

	err = relay.RunOnce(context.Background())
	require.Error(t, err)
	// Not marked published; the row is retried on the next cycle.
	assert.False(t, repo.published["out-1"])
}

func TestRelayHonorsBatchSize(t *testing.T) {
	repo := &fakeOutbox{}
	for i := 0; i < 5; i++ {
		envelope, err := events.New(fmt.Sprintf("evt-%d", i), "application.status_changed", "application-service", "app-1",
			time.Now().UTC(), nil)
		require.NoError(t, err)
		payload, err := json.Marshal(envelope)
		require.NoError(t, err)
		repo.rows = append(repo.rows, pendingRow(fmt.Sprintf("out-%d", i), payload))
	}

	publisher := &capturePublisher{}
	relay := Relay{Outbox: repo, Publisher: publisher, Topic: "application-events", BatchSize: 2}

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.events, 2)
	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.events, 4)
}
