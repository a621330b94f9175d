package repository

import (
	"context"

	"github.com/halcyonmedia/site-services/internal/content"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores feed items in MongoDB keyed by item id.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "date", Value: -1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, err
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Upsert(ctx context.Context, items []content.FeedItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"id": it.ID}).
			SetReplacement(it).
			SetUpsert(true))
	}
	res, err := m.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount), nil
}

func (m *MongoRepo) List(ctx context.Context, t content.FeedType) ([]content.FeedItem, error) {
	filter := bson.M{}
	if t != "" {
		filter["type"] = t
	}
	cur, err := m.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []content.FeedItem{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
