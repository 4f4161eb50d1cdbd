package core

// SortOrder is the direction of one sort key. The values match the store's
// native sort encoding.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// SortKey orders results by one field. Keys addressing a looked-up field use
// the LookupPrefix.
type SortKey struct {
	Field string
	Order SortOrder
}

// Lookup-related keys on result rows.
const (
	// LookupKey is the reserved sub-map attached to result rows carrying
	// resolved lookups. It is a read-time decoration, never persisted.
	LookupKey = "$lookup"
	// LookupPrefix marks a sort field that addresses a looked-up field.
	LookupPrefix = "$lookup."
	// LookupSuffix names the working array a join stage produces for a
	// looked-up field. The shaper consumes and removes it.
	LookupSuffix = "_lookup"
)

// FindOptions configures a find call.
type FindOptions struct {
	// Sort applies multi-key sorting in declaration order.
	Sort []SortKey
	// Limit caps the number of returned rows. Zero means no cap. There is
	// deliberately no offset; pagination beyond a cap is not this layer's
	// concern.
	Limit int64
	// Lookup maps a result field to the class whose instances should be
	// resolved into it: a store-side join for persisted classes, a model
	// cache resolution for model-domain classes.
	Lookup map[string]ClassID
}
