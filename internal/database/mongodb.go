package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Set client options
	clientOptions := options.Client().ApplyURI(uri)

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the database
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}

	log.Println("Successfully connected to MongoDB!")

	return &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (m *MongoDB) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// Collection helpers
func (m *MongoDB) Boards() *mongo.Collection {
	return m.Database.Collection("boards")
}

func (m *MongoDB) Columns() *mongo.Collection {
	return m.Database.Collection("columns")
}

func (m *MongoDB) Cards() *mongo.Collection {
	return m.Database.Collection("cards")
}

func (m *MongoDB) Contacts() *mongo.Collection {
	return m.Database.Collection("contacts")
}

func (m *MongoDB) Communications() *mongo.Collection {
	return m.Database.Collection("communications")
}

func (m *MongoDB) Intents() *mongo.Collection {
	return m.Database.Collection("intents")
}

func (m *MongoDB) Users() *mongo.Collection {
	return m.Database.Collection("users")
}
