package repository

import (
	"context"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IntentRepository struct {
	collection *mongo.Collection
}

func NewIntentRepository(db *mongo.Database) *IntentRepository {
	return &IntentRepository{
		collection: db.Collection("intents"),
	}
}

func (r *IntentRepository) Insert(ctx context.Context, intent *models.Intent) error {
	_, err := r.collection.InsertOne(ctx, intent)
	return err
}

func (r *IntentRepository) List(ctx context.Context) ([]*models.Intent, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var intents []*models.Intent
	if err = cursor.All(ctx, &intents); err != nil {
		return nil, err
	}

	return intents, nil
}

func (r *IntentRepository) FindByName(ctx context.Context, name string) (*models.Intent, error) {
	var intent models.Intent
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&intent)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &intent, nil
}
