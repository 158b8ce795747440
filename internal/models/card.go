package models

import "time"

// Card is a sales lead/deal on the pipeline board. Position is an integer
// rank within its column; ordering invariants are maintained by the card
// service, not the storage layer.
type Card struct {
	ID                 string            `json:"id" bson:"_id"`
	Title              string            `json:"title" bson:"title"`
	Description        string            `json:"description" bson:"description"`
	ContactName        string            `json:"contact_name" bson:"contact_name"`
	ContactEmail       string            `json:"contact_email" bson:"contact_email"`
	ContactPhone       string            `json:"contact_phone" bson:"contact_phone"`
	EstimatedValue     float64           `json:"estimated_value" bson:"estimated_value"`
	Priority           string            `json:"priority" bson:"priority"` // low, medium, high
	AssignedTo         string            `json:"assigned_to" bson:"assigned_to"`
	Tags               []string          `json:"tags" bson:"tags"`
	CreatedAt          time.Time         `json:"created_at" bson:"created_at"`
	DueDate            *time.Time        `json:"due_date,omitempty" bson:"due_date,omitempty"`
	ColumnID           string            `json:"column_id" bson:"column_id"`
	Position           int               `json:"position" bson:"position"`
	LastContact        *time.Time        `json:"last_contact,omitempty" bson:"last_contact,omitempty"`
	CommunicationCount int               `json:"communication_count" bson:"communication_count"`
	PreferredChannel   string            `json:"preferred_channel,omitempty" bson:"preferred_channel,omitempty"`
	ExternalIDs        map[string]string `json:"external_ids,omitempty" bson:"external_ids,omitempty"`
}

type CreateCardRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	ContactName    string     `json:"contact_name"`
	ContactEmail   string     `json:"contact_email"`
	ContactPhone   string     `json:"contact_phone"`
	EstimatedValue float64    `json:"estimated_value"`
	Priority       string     `json:"priority"`
	AssignedTo     string     `json:"assigned_to"`
	Tags           []string   `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	ColumnID       string     `json:"column_id" binding:"required"`
}

type UpdateCardRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ContactName    *string    `json:"contact_name"`
	ContactEmail   *string    `json:"contact_email"`
	ContactPhone   *string    `json:"contact_phone"`
	EstimatedValue *float64   `json:"estimated_value"`
	Priority       *string    `json:"priority"`
	AssignedTo     *string    `json:"assigned_to"`
	Tags           *[]string  `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	ColumnID       *string    `json:"column_id"`
	Position       *int       `json:"position"`
}

type MoveCardRequest struct {
	CardID              string `json:"card_id" binding:"required"`
	DestinationColumnID string `json:"destination_column_id" binding:"required"`
	Position            int    `json:"position"`
}
