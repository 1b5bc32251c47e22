package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event shape shared by every context.
// Keep it backward compatible: consumers dedup on EventID and route on
// EventType/PartitionKey.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// New builds a v1 envelope from a payload map.
func New(eventID string, eventType string, source string, partitionKey string, occurredAt time.Time, data map[string]any) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    source,
		SchemaVersion:    1,
		PartitionKeyPath: "partition_key",
		PartitionKey:     partitionKey,
		Data:             payload,
	}, nil
}
