package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 5 * time.Second

// MongoBackend serves collections from a MongoDB database.
type MongoBackend struct {
	db      *mongo.Database
	timeout time.Duration
}

// NewMongoBackend wraps db. Each store call runs under timeout; zero selects 5s.
func NewMongoBackend(db *mongo.Database, timeout time.Duration) *MongoBackend {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &MongoBackend{db: db, timeout: timeout}
}

// Driver implements Backend.
func (b *MongoBackend) Driver() string { return "mongo" }

// Database exposes the underlying database for index management.
func (b *MongoBackend) Database() *mongo.Database { return b.db }

type mongoCollection[T any] struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newMongoCollection[T any](coll *mongo.Collection, timeout time.Duration) *mongoCollection[T] {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &mongoCollection[T]{coll: coll, timeout: timeout}
}

func (c *mongoCollection[T]) Name() string { return c.coll.Name() }

func (c *mongoCollection[T]) Get(ctx context.Context, id string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var doc T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, err
	}
	return doc, nil
}

func (c *mongoCollection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	findOptions := options.Find()
	if q.SortBy != "" {
		dir := 1
		if q.SortDesc {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.SortBy, Value: dir}})
	}
	if q.Max > 0 {
		findOptions.SetLimit(q.Max)
	}
	if q.Offset > 0 {
		findOptions.SetSkip(q.Offset)
	}

	cursor, err := c.coll.Find(ctx, buildFilter(q), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *mongoCollection[T]) Count(ctx context.Context, q Query) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.coll.CountDocuments(ctx, buildFilter(q))
}

func (c *mongoCollection[T]) Insert(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (c *mongoCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M(fields)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// buildFilter merges all operators on the same field into one sub-document,
// e.g. {"date": {"$gte": a, "$lte": b}}.
func buildFilter(q Query) bson.M {
	filter := bson.M{}
	for _, f := range q.Filters {
		ops, ok := filter[f.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[f.Field] = ops
		}
		ops[string(f.Op)] = f.Value
	}
	return filter
}
