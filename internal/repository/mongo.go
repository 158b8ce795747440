package repository

import "go.mongodb.org/mongo-driver/mongo"

// NewMongoStores wires the MongoDB-backed store implementations.
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Boards:         NewBoardRepository(db),
		Columns:        NewColumnRepository(db),
		Cards:          NewCardRepository(db),
		Contacts:       NewContactRepository(db),
		Communications: NewCommunicationRepository(db),
		Intents:        NewIntentRepository(db),
		Users:          NewUserRepository(db),
	}
}
