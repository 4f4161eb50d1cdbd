package core

// Tx is one immutable mutation request from the platform's command log.
// The concrete variants below are the only implementations.
type Tx interface {
	isTx()
}

// CreateDoc inserts a full document payload as-is. The payload carries its
// own authorship fields; the adapter injects nothing.
type CreateDoc struct {
	Doc Doc
}

// UpdateDoc mutates a single document identified by ObjectID.
type UpdateDoc struct {
	ObjectID    ID
	ObjectClass ClassID
	Update      Update
	// Retrieve requests the post-update document image in the result.
	Retrieve   bool
	ModifiedBy ID
	ModifiedOn int64
}

// RemoveDoc deletes a document. Removal is idempotent: deleting an absent
// identifier is a success.
type RemoveDoc struct {
	ObjectID    ID
	ObjectClass ClassID
}

// MixinUpdate mutates the facet of a document identified by the Mixin class,
// namespacing every attribute under the mixin key.
type MixinUpdate struct {
	ObjectID    ID
	ObjectClass ClassID
	Mixin       ClassID
	Update      Update
	ModifiedBy  ID
	ModifiedOn  int64
}

// PutBag writes a single key of a nested-map ("bag") field.
type PutBag struct {
	ObjectID    ID
	ObjectClass ClassID
	Bag         string
	Key         string
	Value       any
	ModifiedBy  ID
	ModifiedOn  int64
}

func (*CreateDoc) isTx()   {}
func (*UpdateDoc) isTx()   {}
func (*RemoveDoc) isTx()   {}
func (*MixinUpdate) isTx() {}
func (*PutBag) isTx()      {}

// Update is the payload of an UpdateDoc or MixinUpdate transaction. It is a
// tagged variant decided at transaction construction time: either a plain
// field-value map applied as a field-set, or a map of native update
// operators.
type Update interface {
	isUpdate()
}

// FieldSet is a plain field-value map, applied as a single field-set.
type FieldSet map[string]any

// Operators is an operator map. Every top-level key must carry the operator
// prefix; the adapter rejects anything else before touching the store.
type Operators map[string]any

func (FieldSet) isUpdate()  {}
func (Operators) isUpdate() {}

// Update operator vocabulary recognized beyond plain passthrough.
const (
	// OperatorPrefix distinguishes operator tags from field names.
	OperatorPrefix = "$"
	// OpMove repositions a value inside an ordered list field. Its payload
	// maps the list field name to {MoveValue: v, MovePosition: p}. The store
	// has no atomic remove-then-reinsert primitive, so the adapter emulates
	// it as an ordered two-operation batch.
	OpMove = "$move"
	// MoveValue keys the repositioned value inside an OpMove payload.
	MoveValue = "$value"
	// MovePosition keys the target index inside an OpMove payload.
	MovePosition = "$position"
)
