package models

import "time"

// Intent is a configured classification category. TargetColumnID, when set,
// is the column a matching lead is moved to by the automation engine.
type Intent struct {
	ID                        string    `json:"id" bson:"_id"`
	Name                      string    `json:"name" bson:"name"`
	Description               string    `json:"description" bson:"description"`
	Keywords                  []string  `json:"keywords" bson:"keywords"`
	ConfidenceThreshold       float64   `json:"confidence_threshold" bson:"confidence_threshold"`
	AutomatedResponseTemplate string    `json:"automated_response_template" bson:"automated_response_template"`
	TargetColumnID            string    `json:"target_column_id,omitempty" bson:"target_column_id,omitempty"`
	CreatedAt                 time.Time `json:"created_at" bson:"created_at"`
}

type CreateIntentRequest struct {
	Name                      string   `json:"name" binding:"required"`
	Description               string   `json:"description"`
	Keywords                  []string `json:"keywords"`
	ConfidenceThreshold       *float64 `json:"confidence_threshold"`
	AutomatedResponseTemplate string   `json:"automated_response_template"`
	TargetColumnID            string   `json:"target_column_id"`
}

// Classification is the structured result produced by the intent classifier
// for one inbound message.
type Classification struct {
	Intent            string  `json:"intent"`
	Confidence        float64 `json:"confidence"`
	Summary           string  `json:"summary"`
	SuggestedResponse string  `json:"suggested_response"`
	Urgency           string  `json:"urgency"`     // low, medium, high
	NextAction        string  `json:"next_action"` // follow_up, send_proposal, schedule_call, close_deal, none
}
