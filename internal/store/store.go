package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert collides with an existing id or unique key.
	ErrDuplicate = errors.New("duplicate document")
)

// Collection is a named set of documents of a single type.
// Every write touches exactly one document.
type Collection[T any] interface {
	Name() string
	Get(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, q Query) (int64, error)
	Insert(ctx context.Context, doc T) error
	Replace(ctx context.Context, id string, doc T) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Backend produces collections. Implemented by *MongoBackend and *MemoryBackend.
type Backend interface {
	Driver() string
}

// For returns the collection called name on the given backend.
func For[T any](b Backend, name string) Collection[T] {
	switch be := b.(type) {
	case *MongoBackend:
		return newMongoCollection[T](be.db.Collection(name), be.timeout)
	case *MemoryBackend:
		return newMemoryCollection[T](be.table(name))
	default:
		panic(fmt.Sprintf("store: unsupported backend %T", b))
	}
}

// NewID generates a new document id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
