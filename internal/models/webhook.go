package models

// WebhookEvent is the Messenger platform event envelope posted to the
// webhook endpoint.
type WebhookEvent struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

type MessagingEvent struct {
	Sender    WebhookParty    `json:"sender"`
	Recipient WebhookParty    `json:"recipient"`
	Timestamp int64           `json:"timestamp"`
	Message   *WebhookMessage `json:"message,omitempty"`
}

type WebhookParty struct {
	ID string `json:"id"`
}

type WebhookMessage struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}
