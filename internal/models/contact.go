package models

import "time"

// Contact is a cross-platform identity for a message sender. PlatformIDs
// maps a platform name ("messenger", "whatsapp", ...) to the sender's
// external id on that platform, at most one per platform.
type Contact struct {
	ID          string                 `json:"id" bson:"_id"`
	Name        string                 `json:"name" bson:"name"`
	Email       string                 `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string                 `json:"phone,omitempty" bson:"phone,omitempty"`
	PlatformIDs map[string]string      `json:"platform_ids" bson:"platform_ids"`
	FirstSeen   time.Time              `json:"first_seen" bson:"first_seen"`
	LastSeen    time.Time              `json:"last_seen" bson:"last_seen"`
	ProfileData map[string]interface{} `json:"profile_data,omitempty" bson:"profile_data,omitempty"`
	// CardID is a weak back-reference; a Contact may exist without a Card.
	CardID string `json:"card_id,omitempty" bson:"card_id,omitempty"`
}
