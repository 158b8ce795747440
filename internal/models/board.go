package models

import "time"

type Board struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Owner       string    `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Column struct {
	ID       string `json:"id" bson:"_id"`
	Title    string `json:"title" bson:"title"`
	Color    string `json:"color" bson:"color"`
	Position int    `json:"position" bson:"position"`
	BoardID  string `json:"board_id" bson:"board_id"`
}

type CreateBoardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
