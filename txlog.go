package mongotx

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platformd/mongotx/pkg/client"
	"github.com/platformd/mongotx/pkg/core"
)

// TxAdapter is the adapter variant backing the append-only transaction log.
// It shares the underlying client handle with the embedded Adapter.
type TxAdapter struct {
	*Adapter

	once  sync.Once
	txCol client.Collection
}

// NewTxAdapter wraps an adapter for the reserved transaction-log domain.
func NewTxAdapter(adapter *Adapter) *TxAdapter {
	return &TxAdapter{Adapter: adapter}
}

// txCollection resolves the log collection once and reuses the handle; this
// is the only adapter-held state computed after construction.
func (t *TxAdapter) txCollection() client.Collection {
	t.once.Do(func() {
		t.txCol = t.db.Collection(string(core.DomainTx))
	})
	return t.txCol
}

// Append stores one raw transaction document in the log.
func (t *TxAdapter) Append(ctx context.Context, tx core.Doc) error {
	return t.txCollection().InsertOne(ctx, tx)
}

// GetModelLog returns the model-space transactions ordered by identifier
// ascending, which is creation order for the platform's sortable ids.
func (t *TxAdapter) GetModelLog(ctx context.Context) ([]core.Doc, error) {
	cur, err := t.txCollection().Find(ctx,
		bson.M{core.FieldObjectSpace: core.SpaceModel},
		options.Find().SetSort(bson.D{{Key: core.FieldID, Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var txes []core.Doc
	if err := cur.All(ctx, &txes); err != nil {
		return nil, err
	}
	return txes, nil
}
