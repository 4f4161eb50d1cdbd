package mongotx

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/platformd/mongotx/pkg/core"
)

// shapeLookups attaches the reserved lookup sub-map to every row of a
// lookup-bearing query. Joined targets take the first element of their
// working array (left outer join: no match, no entry); model-domain targets
// resolve through the model cache. The working arrays are removed so only
// the decoration remains.
func (a *Adapter) shapeLookups(docs []core.Doc, lookup map[string]core.ClassID) error {
	for _, doc := range docs {
		resolved := core.Doc{}
		for field, target := range lookup {
			domain, err := a.hierarchy.DomainOf(target)
			if err != nil {
				return err
			}
			if domain == core.DomainModel {
				if ref, ok := refID(doc[field]); ok {
					if modelDoc, ok := a.model.Resolve(ref); ok {
						resolved[field] = modelDoc
					}
				}
				continue
			}
			key := field + core.LookupSuffix
			if first, ok := firstElement(doc[key]); ok {
				resolved[field] = first
			}
			delete(doc, key)
		}
		doc[core.LookupKey] = resolved
	}
	return nil
}

func refID(value any) (core.ID, bool) {
	switch v := value.(type) {
	case core.ID:
		return v, true
	case string:
		return core.ID(v), true
	}
	return "", false
}

// firstElement handles the array shapes the driver and the test fakes
// produce for a join result.
func firstElement(value any) (any, bool) {
	switch v := value.(type) {
	case []core.Doc:
		if len(v) > 0 {
			return v[0], true
		}
	case []any:
		if len(v) > 0 {
			return v[0], true
		}
	case primitive.A:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}
