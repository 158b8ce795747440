package models

import "time"

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// Communication is one logged inbound or outbound message. Records are
// append-only: never mutated after creation except for the
// automated_response flag set by the automation engine.
type Communication struct {
	ID                string                 `json:"id" bson:"_id"`
	ContactID         string                 `json:"contact_id,omitempty" bson:"contact_id,omitempty"`
	CardID            string                 `json:"card_id,omitempty" bson:"card_id,omitempty"`
	Channel           string                 `json:"channel" bson:"channel"`
	Direction         string                 `json:"direction" bson:"direction"`
	Content           string                 `json:"content" bson:"content"`
	Intent            string                 `json:"intent,omitempty" bson:"intent,omitempty"`
	IntentConfidence  float64                `json:"intent_confidence" bson:"intent_confidence"`
	AutomatedResponse bool                   `json:"automated_response" bson:"automated_response"`
	PlatformMessageID string                 `json:"platform_message_id,omitempty" bson:"platform_message_id,omitempty"`
	Timestamp         time.Time              `json:"timestamp" bson:"timestamp"`
	Metadata          map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// CommunicationFilter narrows communication listings.
type CommunicationFilter struct {
	Channel   string
	ContactID string
	Limit     int
}
