package entities

import "time"

// Conversation is created lazily, one per (business, influencer,
// application) triple.
type Conversation struct {
	ConversationID string
	ApplicationID  string
	BusinessID     string
	InfluencerID   string
	CreatedAt      time.Time
}

// Message sender kinds.
const (
	SenderUser   = "user"
	SenderSystem = "system"
)

type Message struct {
	MessageID      string
	ConversationID string
	SenderID       string
	SenderKind     string
	Body           string
	CreatedAt      time.Time
}
