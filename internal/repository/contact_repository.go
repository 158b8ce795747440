package repository

import (
	"context"
	"time"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	r := &ContactRepository{
		collection: db.Collection("contacts"),
	}

	// Ensure index for platform id lookups
	ctx := context.Background()
	_, _ = r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "platform_ids", Value: 1}},
		Options: options.Index().SetName("idx_platform_ids"),
	})

	return r
}

func (r *ContactRepository) Insert(ctx context.Context, contact *models.Contact) error {
	_, err := r.collection.InsertOne(ctx, contact)
	return err
}

func (r *ContactRepository) Get(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]*models.Contact, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "first_seen", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []*models.Contact
	if err = cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *ContactRepository) FindByPlatformID(ctx context.Context, platform, externalID string) (*models.Contact, error) {
	var contact models.Contact
	err := r.collection.FindOne(ctx, bson.M{"platform_ids." + platform: externalID}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) SetLastSeen(ctx context.Context, id string, at time.Time) error {
	update := bson.M{"$set": bson.M{"last_seen": at}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ContactRepository) SetCardID(ctx context.Context, id, cardID string) error {
	update := bson.M{"$set": bson.M{"card_id": cardID}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
