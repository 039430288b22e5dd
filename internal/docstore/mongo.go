package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo wraps an already connected client. The store owns the client from
// here on and disconnects it on Close.
func NewMongo(client *mongo.Client, database string) Store {
	return &mongoStore{
		client: client,
		db:     client.Database(database),
	}
}

func (s *mongoStore) Driver() string   { return DriverMongo }
func (s *mongoStore) Database() string { return s.db.Name() }

// Ping checks the server and that the configured database can be listed.
func (s *mongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	if _, err := s.db.ListCollectionNames(ctx, bson.D{}); err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *mongoStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := validField(field); err != nil {
		return err
	}
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	})
	if err != nil {
		return fmt.Errorf("create index %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *mongoStore) rawCollection(name string) rawCollection {
	return mongoCollection{coll: s.db.Collection(name)}
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c mongoCollection) findAll(ctx context.Context) ([]bson.Raw, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		out = append(out, clone(cur.Current))
	}
	return out, cur.Err()
}

func (c mongoCollection) findOne(ctx context.Context, field string, value string) (bson.Raw, error) {
	raw, err := c.coll.FindOne(ctx, bson.D{{Key: field, Value: value}}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return clone(raw), nil
}

func (c mongoCollection) insert(ctx context.Context, _ string, doc bson.Raw) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (c mongoCollection) replace(ctx context.Context, id string, doc bson.Raw) error {
	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
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

func (c mongoCollection) delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
