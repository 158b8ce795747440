package repository

import (
	"context"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommunicationRepository struct {
	collection *mongo.Collection
}

func NewCommunicationRepository(db *mongo.Database) *CommunicationRepository {
	r := &CommunicationRepository{
		collection: db.Collection("communications"),
	}

	ctx := context.Background()
	_, _ = r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contact_id", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_contact_timestamp"),
	})

	return r
}

func (r *CommunicationRepository) Insert(ctx context.Context, comm *models.Communication) error {
	_, err := r.collection.InsertOne(ctx, comm)
	return err
}

func (r *CommunicationRepository) List(ctx context.Context, filter models.CommunicationFilter) ([]*models.Communication, error) {
	query := bson.M{}
	if filter.Channel != "" {
		query["channel"] = filter.Channel
	}
	if filter.ContactID != "" {
		query["contact_id"] = filter.ContactID
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comms []*models.Communication
	if err = cursor.All(ctx, &comms); err != nil {
		return nil, err
	}

	return comms, nil
}

func (r *CommunicationRepository) ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Communication, error) {
	return r.List(ctx, models.CommunicationFilter{ContactID: contactID, Limit: limit})
}

// MarkAutomated is the one permitted mutation on a communication record.
func (r *CommunicationRepository) MarkAutomated(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"automated_response": true}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
