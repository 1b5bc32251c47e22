package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConversationDTO struct {
	ConversationID string `json:"conversation_id"`
	ApplicationID  string `json:"application_id"`
	BusinessID     string `json:"business_id"`
	InfluencerID   string `json:"influencer_id"`
	CreatedAt      string `json:"created_at"`
}

type MessageDTO struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	SenderKind     string `json:"sender_kind"`
	Body           string `json:"body"`
	CreatedAt      string `json:"created_at"`
}

type PostMessageRequest struct {
	Body string `json:"body"`
}

type PostMessageResponse struct {
	Message MessageDTO `json:"message"`
}

type ListMessagesResponse struct {
	Items []MessageDTO `json:"items"`
}

type ListConversationsResponse struct {
	Items []ConversationDTO `json:"items"`
}
