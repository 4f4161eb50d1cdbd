package mongotx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platformd/mongotx/pkg/client"
	"github.com/platformd/mongotx/pkg/core"
)

// Tx applies one transaction. Each transaction kind maps to an independent
// write strategy; there is no shared state across calls and no partial
// multi-call protocol. Store errors propagate with their native detail.
func (a *Adapter) Tx(ctx context.Context, tx core.Tx) (core.TxResult, error) {
	switch tx := tx.(type) {
	case *core.CreateDoc:
		return core.TxResult{}, a.txCreateDoc(ctx, tx)
	case *core.UpdateDoc:
		return a.txUpdateDoc(ctx, tx)
	case *core.RemoveDoc:
		return core.TxResult{}, a.txRemoveDoc(ctx, tx)
	case *core.MixinUpdate:
		return core.TxResult{}, a.txMixinUpdate(ctx, tx)
	case *core.PutBag:
		return core.TxResult{}, a.txPutBag(ctx, tx)
	default:
		return core.TxResult{}, fmt.Errorf("%w: %T", ErrUnknownTx, tx)
	}
}

// txCreateDoc inserts the transaction's payload as-is. The payload carries
// its own authorship; nothing is injected.
func (a *Adapter) txCreateDoc(ctx context.Context, tx *core.CreateDoc) error {
	col, err := a.collection(tx.Doc.Class())
	if err != nil {
		return err
	}
	a.log.Debug().Str("class", string(tx.Doc.Class())).Msg("create")
	return col.InsertOne(ctx, tx.Doc)
}

func (a *Adapter) txUpdateDoc(ctx context.Context, tx *core.UpdateDoc) (core.TxResult, error) {
	col, err := a.collection(tx.ObjectClass)
	if err != nil {
		return core.TxResult{}, err
	}
	switch update := tx.Update.(type) {
	case core.FieldSet:
		set := bson.M{
			core.FieldModifiedBy: tx.ModifiedBy,
			core.FieldModifiedOn: tx.ModifiedOn,
		}
		for key, value := range update {
			set[key] = value
		}
		return a.updateOne(ctx, col, tx.ObjectID, bson.M{"$set": set}, tx.Retrieve)
	case core.Operators:
		if move, ok := update[core.OpMove]; ok {
			if len(update) > 1 {
				return core.TxResult{}, fmt.Errorf("%w: $move cannot be combined with other operators", ErrBadOperator)
			}
			return core.TxResult{}, a.txMove(ctx, col, tx, move)
		}
		op, err := operatorUpdate(update, tx.ModifiedBy, tx.ModifiedOn)
		if err != nil {
			return core.TxResult{}, err
		}
		return a.updateOne(ctx, col, tx.ObjectID, op, tx.Retrieve)
	default:
		return core.TxResult{}, fmt.Errorf("%w: update payload %T", ErrBadOperator, tx.Update)
	}
}

// updateOne executes an update by identifier. With retrieve set it runs as
// an atomic update returning the post-modification image; a document that
// vanished underneath reports an absent object, not an error.
func (a *Adapter) updateOne(ctx context.Context, col client.Collection, id core.ID, update any, retrieve bool) (core.TxResult, error) {
	filter := bson.M{core.FieldID: id}
	if retrieve {
		res := col.FindOneAndUpdate(ctx, filter, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After))
		var doc core.Doc
		if err := res.Decode(&doc); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return core.TxResult{}, nil
			}
			return core.TxResult{}, err
		}
		return core.TxResult{Object: doc}, nil
	}
	_, err := col.UpdateOne(ctx, filter, update)
	return core.TxResult{}, err
}

// operatorUpdate validates an operator map and merges the authorship fields
// into its field-set clause, creating one when the payload has none.
func operatorUpdate(update core.Operators, modifiedBy core.ID, modifiedOn int64) (bson.M, error) {
	op := bson.M{}
	for key, value := range update {
		if !strings.HasPrefix(key, core.OperatorPrefix) {
			return nil, fmt.Errorf("%w: %q is not an operator", ErrBadOperator, key)
		}
		op[key] = value
	}
	set := bson.M{}
	if existing, ok := asMap(op["$set"]); ok {
		for key, value := range existing {
			set[key] = value
		}
	}
	set[core.FieldModifiedBy] = modifiedBy
	set[core.FieldModifiedOn] = modifiedOn
	op["$set"] = set
	return op, nil
}

// txMove emulates list repositioning. The store has no atomic
// remove-then-reinsert-at-position update, so the pull and the positioned
// push go out as one ordered batch against the same identifier; the store
// applies same-document operations in submission order. A failure between
// the two sub-operations leaves the intermediate state behind and surfaces
// as the failing sub-operation's error, with no compensation here.
func (a *Adapter) txMove(ctx context.Context, col client.Collection, tx *core.UpdateDoc, payload any) error {
	fields, ok := asMap(payload)
	if !ok || len(fields) == 0 {
		return fmt.Errorf("%w: $move expects a field map", ErrBadOperator)
	}
	filter := bson.M{core.FieldID: tx.ObjectID}
	var models []mongo.WriteModel
	for field, raw := range fields {
		spec, ok := asMap(raw)
		if !ok {
			return fmt.Errorf("%w: $move %q expects {$value, $position}", ErrBadOperator, field)
		}
		value, ok := spec[core.MoveValue]
		if !ok {
			return fmt.Errorf("%w: $move %q is missing $value", ErrBadOperator, field)
		}
		position, err := positionOf(spec, field)
		if err != nil {
			return err
		}
		models = append(models,
			mongo.NewUpdateOneModel().
				SetFilter(filter).
				SetUpdate(bson.M{"$pull": bson.M{field: value}}),
			mongo.NewUpdateOneModel().
				SetFilter(filter).
				SetUpdate(bson.M{
					"$set": bson.M{
						core.FieldModifiedBy: tx.ModifiedBy,
						core.FieldModifiedOn: tx.ModifiedOn,
					},
					"$push": bson.M{field: bson.M{
						"$each":     bson.A{value},
						"$position": position,
					}},
				}),
		)
	}
	a.log.Debug().Str("object", string(tx.ObjectID)).Int("ops", len(models)).Msg("move")
	_, err := col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

func positionOf(spec map[string]any, field string) (int, error) {
	raw, ok := spec[core.MovePosition]
	if !ok {
		return 0, fmt.Errorf("%w: $move %q is missing $position", ErrBadOperator, field)
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: $move %q has an invalid $position %T", ErrBadOperator, field, raw)
}

// txRemoveDoc deletes by identifier. Deletion is idempotent: the store's
// zero-matched outcome is success.
func (a *Adapter) txRemoveDoc(ctx context.Context, tx *core.RemoveDoc) error {
	col, err := a.collection(tx.ObjectClass)
	if err != nil {
		return err
	}
	_, err = col.DeleteOne(ctx, bson.M{core.FieldID: tx.ObjectID})
	return err
}

// txMixinUpdate mirrors txUpdateDoc with every plain field key rewritten to
// <mixin>.<field>. An empty attribute set still writes the placeholder
// marker so facet presence stays queryable with $exists.
func (a *Adapter) txMixinUpdate(ctx context.Context, tx *core.MixinUpdate) error {
	col, err := a.collection(tx.ObjectClass)
	if err != nil {
		return err
	}
	filter := bson.M{core.FieldID: tx.ObjectID}
	switch update := tx.Update.(type) {
	case core.FieldSet:
		set := bson.M{
			core.FieldModifiedBy: tx.ModifiedBy,
			core.FieldModifiedOn: tx.ModifiedOn,
		}
		if len(update) == 0 {
			set[mixinField(tx.Mixin, core.MixinMarker)] = true
		}
		for key, value := range update {
			set[mixinField(tx.Mixin, key)] = value
		}
		_, err = col.UpdateOne(ctx, filter, bson.M{"$set": set})
		return err
	case core.Operators:
		op := core.Operators{}
		touched := 0
		for key, value := range update {
			if !strings.HasPrefix(key, core.OperatorPrefix) {
				return fmt.Errorf("%w: %q is not an operator", ErrBadOperator, key)
			}
			if key == core.OpMove {
				return fmt.Errorf("%w: $move is not supported in a mixin update", ErrBadOperator)
			}
			rewritten, fields := mixinValue(tx.Mixin, value)
			op[key] = rewritten
			touched += fields
		}
		native, err := operatorUpdate(op, tx.ModifiedBy, tx.ModifiedOn)
		if err != nil {
			return err
		}
		if touched == 0 {
			native["$set"].(bson.M)[mixinField(tx.Mixin, core.MixinMarker)] = true
		}
		_, err = col.UpdateOne(ctx, filter, native)
		return err
	default:
		return fmt.Errorf("%w: update payload %T", ErrBadOperator, tx.Update)
	}
}

// mixinValue namespaces the field keys of an operator payload under the
// mixin key, recursing through nested operator tags. It also reports how
// many mixin fields the payload touches, so an update writing none can
// still materialize the facet marker.
func mixinValue(mixin core.ClassID, value any) (any, int) {
	m, ok := asMap(value)
	if !ok {
		return value, 0
	}
	touched := 0
	out := make(map[string]any, len(m))
	for key, nested := range m {
		if strings.HasPrefix(key, core.OperatorPrefix) {
			rewritten, fields := mixinValue(mixin, nested)
			out[key] = rewritten
			touched += fields
			continue
		}
		out[mixinField(mixin, key)] = nested
		touched++
	}
	return out, touched
}

func mixinField(mixin core.ClassID, field string) string {
	return string(mixin) + "." + field
}

// txPutBag writes a single nested-map key.
func (a *Adapter) txPutBag(ctx context.Context, tx *core.PutBag) error {
	col, err := a.collection(tx.ObjectClass)
	if err != nil {
		return err
	}
	set := bson.M{
		tx.Bag + "." + tx.Key: tx.Value,
		core.FieldModifiedBy:  tx.ModifiedBy,
		core.FieldModifiedOn:  tx.ModifiedOn,
	}
	_, err = col.UpdateOne(ctx, bson.M{core.FieldID: tx.ObjectID}, bson.M{"$set": set})
	return err
}
