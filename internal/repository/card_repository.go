package repository

import (
	"context"
	"time"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CardRepository struct {
	collection *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{
		collection: db.Collection("cards"),
	}
}

func (r *CardRepository) Insert(ctx context.Context, card *models.Card) error {
	_, err := r.collection.InsertOne(ctx, card)
	return err
}

func (r *CardRepository) Get(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) List(ctx context.Context) ([]*models.Card, error) {
	return r.find(ctx, bson.M{})
}

func (r *CardRepository) ListByColumn(ctx context.Context, columnID string) ([]*models.Card, error) {
	return r.find(ctx, bson.M{"column_id": columnID})
}

func (r *CardRepository) find(ctx context.Context, filter bson.M) ([]*models.Card, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cards []*models.Card
	if err = cursor.All(ctx, &cards); err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *CardRepository) Replace(ctx context.Context, card *models.Card) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": card.ID}, card)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxPosition returns -1 when the column holds no cards.
func (r *CardRepository) MaxPosition(ctx context.Context, columnID string) (int, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})

	var card models.Card
	err := r.collection.FindOne(ctx, bson.M{"column_id": columnID}, findOptions).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return -1, nil
		}
		return 0, err
	}
	return card.Position, nil
}

func (r *CardRepository) SetPlacement(ctx context.Context, cardID, columnID string, position int) error {
	update := bson.M{
		"$set": bson.M{
			"column_id": columnID,
			"position":  position,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cardID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CardRepository) ShiftRight(ctx context.Context, columnID string, fromPos int, excludeID string) error {
	filter := bson.M{
		"column_id": columnID,
		"_id":       bson.M{"$ne": excludeID},
		"position":  bson.M{"$gte": fromPos},
	}
	update := bson.M{"$inc": bson.M{"position": 1}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	return err
}

func (r *CardRepository) RecordContact(ctx context.Context, cardID string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{"last_contact": at},
		"$inc": bson.M{"communication_count": 1},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cardID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CardRepository) ListOverdue(ctx context.Context, before time.Time) ([]*models.Card, error) {
	filter := bson.M{
		"due_date": bson.M{"$lt": before},
		"tags":     bson.M{"$ne": "overdue"},
	}
	return r.find(ctx, filter)
}

func (r *CardRepository) AddTag(ctx context.Context, cardID, tag string) error {
	update := bson.M{"$addToSet": bson.M{"tags": tag}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": cardID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
