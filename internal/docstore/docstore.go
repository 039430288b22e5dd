// Package docstore is a small document-store layer. Documents are encoded
// with their bson tags and kept in named collections keyed by "_id". The same
// typed Collection runs on MongoDB, on Postgres (jsonb rows) or in memory.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Document is anything stored in a collection.
type Document interface {
	DocumentID() string
}

// Store is an open connection to one database.
type Store interface {
	Driver() string
	Database() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	// EnsureUnique makes the store reject a second document with the same value in field.
	EnsureUnique(ctx context.Context, collection, field string) error

	rawCollection(name string) rawCollection
}

type rawCollection interface {
	findAll(ctx context.Context) ([]bson.Raw, error)
	findOne(ctx context.Context, field string, value string) (bson.Raw, error)
	insert(ctx context.Context, id string, doc bson.Raw) error
	replace(ctx context.Context, id string, doc bson.Raw) error
	delete(ctx context.Context, id string) error
}

// Collection is a typed view over one named collection.
type Collection[T Document] struct {
	name string
	raw  rawCollection
}

func NewCollection[T Document](store Store, name string) *Collection[T] {
	return &Collection[T]{name: name, raw: store.rawCollection(name)}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	raws, err := c.raw.findAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s find all: %w", c.name, err)
	}

	docs := make([]T, 0, len(raws))
	for _, raw := range raws {
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s decode: %w", c.name, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	return c.FindOne(ctx, "_id", id)
}

// FindOne returns the first document whose field equals value, or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, field, value string) (T, error) {
	var doc T
	if err := validField(field); err != nil {
		return doc, err
	}

	raw, err := c.raw.findOne(ctx, field, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("%s find: %w", c.name, err)
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("%s decode: %w", c.name, err)
	}
	return doc, nil
}

func (c *Collection[T]) InsertOne(ctx context.Context, doc T) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	if err := c.raw.insert(ctx, doc.DocumentID(), raw); err != nil {
		return c.wrap("insert", err)
	}
	return nil
}

// ReplaceOne swaps the stored document with the same id for doc.
func (c *Collection[T]) ReplaceOne(ctx context.Context, doc T) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	if err := c.raw.replace(ctx, doc.DocumentID(), raw); err != nil {
		return c.wrap("replace", err)
	}
	return nil
}

func (c *Collection[T]) DeleteOne(ctx context.Context, id string) error {
	if err := c.raw.delete(ctx, id); err != nil {
		return c.wrap("delete", err)
	}
	return nil
}

func (c *Collection[T]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrDuplicate):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s %s: %w", c.name, op, err)
	}
}

func encode(doc Document) (bson.Raw, error) {
	if doc.DocumentID() == "" {
		return nil, errors.New("document id required")
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bson.Raw(data), nil
}

func validField(field string) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	return nil
}
