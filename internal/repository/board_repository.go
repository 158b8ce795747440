package repository

import (
	"context"

	"salesboard-be/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BoardRepository struct {
	collection *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{
		collection: db.Collection("boards"),
	}
}

func (r *BoardRepository) Insert(ctx context.Context, board *models.Board) error {
	_, err := r.collection.InsertOne(ctx, board)
	return err
}

func (r *BoardRepository) List(ctx context.Context) ([]*models.Board, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var boards []*models.Board
	if err = cursor.All(ctx, &boards); err != nil {
		return nil, err
	}

	return boards, nil
}

func (r *BoardRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

type ColumnRepository struct {
	collection *mongo.Collection
}

func NewColumnRepository(db *mongo.Database) *ColumnRepository {
	return &ColumnRepository{
		collection: db.Collection("columns"),
	}
}

func (r *ColumnRepository) Insert(ctx context.Context, column *models.Column) error {
	_, err := r.collection.InsertOne(ctx, column)
	return err
}

func (r *ColumnRepository) ListByBoard(ctx context.Context, boardID string) ([]*models.Column, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"board_id": boardID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var columns []*models.Column
	if err = cursor.All(ctx, &columns); err != nil {
		return nil, err
	}

	return columns, nil
}

func (r *ColumnRepository) List(ctx context.Context) ([]*models.Column, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var columns []*models.Column
	if err = cursor.All(ctx, &columns); err != nil {
		return nil, err
	}

	return columns, nil
}

// Intake returns the lowest-positioned column, where auto-created leads land.
func (r *ColumnRepository) Intake(ctx context.Context) (*models.Column, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "position", Value: 1}})

	var column models.Column
	err := r.collection.FindOne(ctx, bson.M{}, findOptions).Decode(&column)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &column, nil
}
