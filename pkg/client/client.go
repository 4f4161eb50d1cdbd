// Package client is a thin seam over the MongoDB driver. The adapter talks
// to these interfaces so translation logic can be exercised against fakes;
// the production implementation delegates straight to
// go.mongodb.org/mongo-driver with no retry, timeout, or error mapping of
// its own.
package client

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client owns a driver connection handle.
type Client interface {
	Database(name string) Database
	Disconnect(ctx context.Context) error
}

// Database hands out collection handles by domain name.
type Database interface {
	Collection(name string) Collection
}

// Collection exposes the store primitives the adapter consumes.
type Collection interface {
	InsertOne(ctx context.Context, document any) error
	UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any) (*mongo.DeleteResult, error)
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (Cursor, error)
	Aggregate(ctx context.Context, pipeline any) (Cursor, error)
	FindOneAndUpdate(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) SingleResult
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
}

// Cursor is the subset of the driver cursor the adapter uses. Results are
// always materialized eagerly.
type Cursor interface {
	All(ctx context.Context, results any) error
	Close(ctx context.Context) error
}

// SingleResult is the subset of the driver single-document result the
// adapter uses.
type SingleResult interface {
	Decode(v any) error
	Err() error
}

// Connect opens a driver client for the given connection URI.
func Connect(ctx context.Context, uri string) (Client, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &mongoClient{c: c}, nil
}

type mongoClient struct {
	c *mongo.Client
}

func (m *mongoClient) Database(name string) Database {
	return &mongoDatabase{db: m.c.Database(name)}
}

func (m *mongoClient) Disconnect(ctx context.Context) error {
	return m.c.Disconnect(ctx)
}

type mongoDatabase struct {
	db *mongo.Database
}

func (m *mongoDatabase) Collection(name string) Collection {
	return &mongoCollection{col: m.db.Collection(name)}
}

type mongoCollection struct {
	col *mongo.Collection
}

func (m *mongoCollection) InsertOne(ctx context.Context, document any) error {
	_, err := m.col.InsertOne(ctx, document)
	return err
}

func (m *mongoCollection) UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	return m.col.UpdateOne(ctx, filter, update)
}

func (m *mongoCollection) DeleteOne(ctx context.Context, filter any) (*mongo.DeleteResult, error) {
	return m.col.DeleteOne(ctx, filter)
}

func (m *mongoCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (Cursor, error) {
	cur, err := m.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (m *mongoCollection) Aggregate(ctx context.Context, pipeline any) (Cursor, error) {
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return cur, nil
}

func (m *mongoCollection) FindOneAndUpdate(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) SingleResult {
	return m.col.FindOneAndUpdate(ctx, filter, update, opts...)
}

func (m *mongoCollection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	return m.col.BulkWrite(ctx, models, opts...)
}
