package repository

import (
	"context"
	"errors"

	"github.com/halcyonmedia/site-services/internal/inquiry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores inquiries in a MongoDB collection keyed by the "id" field.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, in *inquiry.Inquiry) error {
	_, err := m.col.InsertOne(ctx, in)
	return err
}

func (m *MongoRepo) MarkForwarded(ctx context.Context, id string) error {
	res, err := m.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"forwarded": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*inquiry.Inquiry, error) {
	var in inquiry.Inquiry
	err := m.col.FindOne(ctx, bson.M{"id": id}).Decode(&in)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &in, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*inquiry.Inquiry, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*inquiry.Inquiry{}
	for cur.Next(ctx) {
		var in inquiry.Inquiry
		if err := cur.Decode(&in); err != nil {
			return nil, err
		}
		out = append(out, &in)
	}
	return out, cur.Err()
}
