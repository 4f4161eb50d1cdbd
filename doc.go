// Package mongotx maps a class-hierarchy-aware document transaction
// protocol onto MongoDB.
//
// # Reads
//
// [Adapter.FindAll] rewrites an abstract filter into a native one: pattern
// predicates become anchored case-insensitive regular expressions,
// polymorphic class matching injects the requested class's descendant set,
// and mixin classes additionally require their facet key to exist. Queries
// with relational lookups run as an aggregation pipeline (match, join per
// looked-up class, sort, limit) and the rows come back decorated with a
// reserved lookup sub-map; model-domain targets resolve from the in-memory
// model cache instead of the store.
//
// # Writes
//
// [Adapter.Tx] dispatches a transaction to one of five write strategies:
// document creation, field update, removal, mixin-facet update, and
// nested-map ("bag") key writes. Update payloads are either plain field
// sets or native operator maps; the one operator the store cannot express
// atomically, list repositioning, is emulated as an ordered two-operation
// batch with a documented consistency caveat.
//
// The adapter holds no document state and imposes no serialization across
// concurrent calls; conflict handling between concurrent writers belongs to
// a layer above, as do retries and timeouts.
package mongotx
