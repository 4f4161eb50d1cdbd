package mongotx

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/platformd/mongotx/pkg/client"
	"github.com/platformd/mongotx/pkg/core"
	"github.com/platformd/mongotx/pkg/logger"
)

// Adapter maps the platform's document transaction protocol onto MongoDB.
// It is safe for concurrent use: every call is an independent
// translate-and-execute round trip with no adapter-held state mutated along
// the way. Cancellation and timeouts are the caller's to impose through ctx;
// the adapter neither retries nor suppresses store errors.
type Adapter struct {
	client    client.Client
	db        client.Database
	hierarchy core.Hierarchy
	model     core.ModelDB
	log       zerolog.Logger
}

// New connects to the store and returns an adapter owning the client
// handle. Close releases it.
func New(ctx context.Context, cfg Config, hierarchy core.Hierarchy, model core.ModelDB) (*Adapter, error) {
	cl, err := client.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	adapter := FromClient(cl, cfg.Database, hierarchy, model)
	return adapter, nil
}

// FromClient builds an adapter over an existing client handle. The adapter
// takes ownership: Close disconnects it.
func FromClient(cl client.Client, database string, hierarchy core.Hierarchy, model core.ModelDB) *Adapter {
	log, _ := logger.New().Make()
	return &Adapter{
		client:    cl,
		db:        cl.Database(database),
		hierarchy: hierarchy,
		model:     model,
		log:       log.Logger,
	}
}

// SetLogger replaces the adapter's logger. Call before sharing the adapter
// across goroutines.
func (a *Adapter) SetLogger(log zerolog.Logger) {
	a.log = log
}

// Init is a placeholder for future warm-up work.
func (a *Adapter) Init(ctx context.Context) error {
	return nil
}

// Close releases the client handle. Safe to call once; further use of the
// adapter after Close is undefined.
func (a *Adapter) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}

// collection resolves the storage collection for a class through the
// hierarchy's domain routing.
func (a *Adapter) collection(class core.ClassID) (client.Collection, error) {
	domain, err := a.hierarchy.DomainOf(class)
	if err != nil {
		return nil, err
	}
	return a.db.Collection(string(domain)), nil
}
