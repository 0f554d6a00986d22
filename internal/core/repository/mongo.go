package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/duynhne/sales-service/internal/core/domain"
)

// Collection names used by the Mongo repositories.
const (
	usersCollection         = "users"
	productsCollection      = "products"
	websiteVisitsCollection = "website_visits"
	storeVisitsCollection   = "store_visits"
)

// EnsureMongoIndexes creates the unique and sort indexes the repositories rely on.
// Creating an index that already exists is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		productsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		websiteVisitsCollection: {
			{Keys: bson.D{{Key: "visit_date", Value: -1}}},
		},
		storeVisitsCollection: {
			{Keys: bson.D{{Key: "visit_date", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// mongoCollection holds the CRUD plumbing shared by every record repository.
// T is the domain type, D its BSON document.
type mongoCollection[T any, D any] struct {
	coll    *mongo.Collection
	sort    bson.D
	toDoc   func(*T) D
	fromDoc func(*D) T
}

func (c *mongoCollection[T, D]) list(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{}, options.Find().SetSort(c.sort))
	if err != nil {
		return nil, err
	}

	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for i := range docs {
		out = append(out, c.fromDoc(&docs[i]))
	}
	return out, nil
}

func (c *mongoCollection[T, D]) get(ctx context.Context, filter bson.D) (*T, error) {
	var doc D
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	v := c.fromDoc(&doc)
	return &v, nil
}

func (c *mongoCollection[T, D]) create(ctx context.Context, v *T) error {
	_, err := c.coll.InsertOne(ctx, c.toDoc(v))
	return mapMongoError(err)
}

func (c *mongoCollection[T, D]) update(ctx context.Context, id string, set bson.D) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc D
	err := c.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, mapMongoError(err)
	}
	v := c.fromDoc(&doc)
	return &v, nil
}

func (c *mongoCollection[T, D]) delete(ctx context.Context, id string) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (c *mongoCollection[T, D]) insertMany(ctx context.Context, values []T) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}

	docs := make([]D, 0, len(values))
	for i := range values {
		docs = append(docs, c.toDoc(&values[i]))
	}

	res, err := c.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, mapMongoError(err)
	}
	return len(res.InsertedIDs), nil
}

func mapMongoError(err error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return err
}
