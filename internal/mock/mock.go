// Package mock provides in-memory fakes for the adapter's collaborators:
// the store client seam, the class hierarchy, and the model cache. The
// store fakes record every filter, update, pipeline, and batch the
// translators produce so tests can assert on the exact native operations.
package mock

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platformd/mongotx/pkg/client"
	"github.com/platformd/mongotx/pkg/core"
)

// Hierarchy is a literal-map domain router.
type Hierarchy struct {
	Domains  map[core.ClassID]core.Domain
	Bases    map[core.ClassID]core.ClassID
	Children map[core.ClassID][]core.ClassID
}

func (h *Hierarchy) DomainOf(class core.ClassID) (core.Domain, error) {
	if domain, ok := h.Domains[class]; ok {
		return domain, nil
	}
	return "", fmt.Errorf("no domain for class %s", class)
}

func (h *Hierarchy) BaseClassOf(class core.ClassID) core.ClassID {
	if base, ok := h.Bases[class]; ok {
		return base
	}
	return class
}

func (h *Hierarchy) DescendantsOf(class core.ClassID) []core.ClassID {
	if descendants, ok := h.Children[class]; ok {
		return descendants
	}
	return []core.ClassID{class}
}

// ModelDB is a literal-map model cache.
type ModelDB struct {
	Docs map[core.ID]core.Doc
}

func (m *ModelDB) Resolve(id core.ID) (core.Doc, bool) {
	doc, ok := m.Docs[id]
	return doc, ok
}

// Client hands out one fake database and records disconnects.
type Client struct {
	DB           *Database
	Disconnected int
}

func NewClient() *Client {
	return &Client{DB: &Database{Collections: map[string]*Collection{}}}
}

func (c *Client) Database(name string) client.Database {
	return c.DB
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.Disconnected++
	return nil
}

// Database lazily creates one fake collection per domain name.
type Database struct {
	Collections map[string]*Collection
}

func (d *Database) Collection(name string) client.Collection {
	if col, ok := d.Collections[name]; ok {
		return col
	}
	col := &Collection{}
	d.Collections[name] = col
	return col
}

// Col returns the fake for a domain, creating it on first use, so tests
// can seed canned results before the adapter touches it.
func (d *Database) Col(domain core.Domain) *Collection {
	return d.Collection(string(domain)).(*Collection)
}

// UpdateCall is one recorded update-by-filter.
type UpdateCall struct {
	Filter any
	Update any
}

// FindCall is one recorded find.
type FindCall struct {
	Filter any
	Opts   []*options.FindOptions
}

// BulkCall is one recorded batch write.
type BulkCall struct {
	Models []mongo.WriteModel
	Opts   []*options.BulkWriteOptions
}

// FindOneAndUpdateCall is one recorded atomic update-and-fetch.
type FindOneAndUpdateCall struct {
	Filter any
	Update any
	Opts   []*options.FindOneAndUpdateOptions
}

// Collection records the operations issued against one domain and serves
// canned results.
type Collection struct {
	Inserted          []any
	Updates           []UpdateCall
	Deletes           []any
	Finds             []FindCall
	Pipelines         []any
	Bulks             []BulkCall
	FindOneAndUpdates []FindOneAndUpdateCall

	FindDocs      []core.Doc
	AggregateDocs []core.Doc
	UpdateResult  *mongo.UpdateResult
	DeleteResult  *mongo.DeleteResult
	PostImage     core.Doc
	PostImageErr  error
	Err           error
}

func (c *Collection) InsertOne(ctx context.Context, document any) error {
	if c.Err != nil {
		return c.Err
	}
	c.Inserted = append(c.Inserted, document)
	return nil
}

func (c *Collection) UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.Updates = append(c.Updates, UpdateCall{Filter: filter, Update: update})
	if c.UpdateResult != nil {
		return c.UpdateResult, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter any) (*mongo.DeleteResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.Deletes = append(c.Deletes, filter)
	if c.DeleteResult != nil {
		return c.DeleteResult, nil
	}
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (c *Collection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (client.Cursor, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.Finds = append(c.Finds, FindCall{Filter: filter, Opts: opts})
	return &Cursor{Docs: c.FindDocs}, nil
}

func (c *Collection) Aggregate(ctx context.Context, pipeline any) (client.Cursor, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.Pipelines = append(c.Pipelines, pipeline)
	return &Cursor{Docs: c.AggregateDocs}, nil
}

func (c *Collection) FindOneAndUpdate(ctx context.Context, filter, update any, opts ...*options.FindOneAndUpdateOptions) client.SingleResult {
	c.FindOneAndUpdates = append(c.FindOneAndUpdates, FindOneAndUpdateCall{Filter: filter, Update: update, Opts: opts})
	return &SingleResult{Doc: c.PostImage, DecodeErr: c.PostImageErr}
}

func (c *Collection) BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.Bulks = append(c.Bulks, BulkCall{Models: models, Opts: opts})
	return &mongo.BulkWriteResult{}, nil
}

// Cursor serves a fixed document slice.
type Cursor struct {
	Docs   []core.Doc
	Closed bool
}

func (c *Cursor) All(ctx context.Context, results any) error {
	out, ok := results.(*[]core.Doc)
	if !ok {
		return fmt.Errorf("unexpected cursor target %T", results)
	}
	*out = c.Docs
	return nil
}

func (c *Cursor) Close(ctx context.Context) error {
	c.Closed = true
	return nil
}

// SingleResult serves one canned post-image document or error.
type SingleResult struct {
	Doc       core.Doc
	DecodeErr error
}

func (r *SingleResult) Decode(v any) error {
	if r.DecodeErr != nil {
		return r.DecodeErr
	}
	out, ok := v.(*core.Doc)
	if !ok {
		return fmt.Errorf("unexpected decode target %T", v)
	}
	*out = r.Doc
	return nil
}

func (r *SingleResult) Err() error {
	return r.DecodeErr
}
