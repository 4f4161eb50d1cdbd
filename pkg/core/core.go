// Package core defines the platform-level document model consumed by the
// MongoDB adapter: schemaless documents with a single-rooted class hierarchy,
// optional mixin facets, and the transaction variants of the platform's
// command log.
//
// The adapter never owns document state. Every type here is either an input
// (a transaction, a filter, find options) or an output (a document row), and
// the class-to-domain routing metadata is consumed through the [Hierarchy]
// interface rather than hard-coded.
package core

import "github.com/rs/xid"

// ID is a stable document identifier, unique within its storage domain.
type ID string

// ClassID identifies a class in the platform hierarchy, including mixin
// classes.
type ClassID string

// Domain is a physical storage partition. Every class maps to exactly one
// domain, several classes may share one.
type Domain string

// Reserved domains.
const (
	// DomainModel holds class-level documents that are never persisted to
	// the general store; they are resolved from an in-memory model cache.
	DomainModel Domain = "model"
	// DomainTx holds the append-only transaction log.
	DomainTx Domain = "tx"
)

// Reserved document fields.
const (
	FieldID          = "_id"
	FieldClass       = "_class"
	FieldSpace       = "space"
	FieldObjectSpace = "objectSpace"
	FieldModifiedBy  = "modifiedBy"
	FieldModifiedOn  = "modifiedOn"
)

// SpaceModel is the space carried by model-level transactions in the log.
const SpaceModel ID = "space:model"

// MixinMarker is the placeholder field written when a mixin update carries no
// attributes of its own, so that facet presence can be tested with $exists.
const MixinMarker = "__mixin"

// Doc is a schemaless document row. Nested documents decode as maps as well.
type Doc map[string]any

// ID returns the document identifier, or "" when absent.
func (d Doc) ID() ID {
	switch v := d[FieldID].(type) {
	case ID:
		return v
	case string:
		return ID(v)
	}
	return ""
}

// Class returns the document's class identifier, or "" when absent.
func (d Doc) Class() ClassID {
	switch v := d[FieldClass].(type) {
	case ClassID:
		return v
	case string:
		return ClassID(v)
	}
	return ""
}

// GenerateID returns a new sortable identifier. Identifiers generated later
// sort after identifiers generated earlier, which keeps the transaction log
// readable in creation order by an ascending _id sort.
func GenerateID() ID {
	return ID(xid.New().String())
}

// Hierarchy routes classes to storage domains and resolves polymorphic
// descendant sets. It is metadata owned by the platform, injected into the
// adapter.
type Hierarchy interface {
	// DomainOf returns the physical storage domain for a class.
	DomainOf(class ClassID) (Domain, error)
	// BaseClassOf returns the base storage class of a class. For a mixin
	// class this differs from the class itself.
	BaseClassOf(class ClassID) ClassID
	// DescendantsOf returns the class and all of its concrete subclasses.
	DescendantsOf(class ClassID) []ClassID
}

// ModelDB resolves model-domain documents, which live in memory rather than
// in the store.
type ModelDB interface {
	Resolve(id ID) (Doc, bool)
}

// TxResult is the outcome of applying a transaction. Object is set only when
// the transaction requested the post-write document.
type TxResult struct {
	Object Doc
}
