package mongotx

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/platformd/mongotx/pkg/core"
)

// opLike marks a pattern-match predicate in an abstract filter. The pattern
// follows SQL LIKE semantics: % matches any sequence, the whole value must
// match.
const opLike = "$like"

// FindAll executes a read for the given class. The result is a finite,
// eagerly materialized sequence; a fresh call re-executes the query.
func (a *Adapter) FindAll(ctx context.Context, class core.ClassID, query core.Doc, opts *core.FindOptions) ([]core.Doc, error) {
	col, err := a.collection(class)
	if err != nil {
		return nil, err
	}
	filter := a.translateQuery(class, query)
	if opts == nil {
		opts = &core.FindOptions{}
	}
	a.log.Debug().Str("class", string(class)).Int("lookups", len(opts.Lookup)).Msg("find")

	if len(opts.Lookup) == 0 {
		findOpts := options.Find()
		if len(opts.Sort) > 0 {
			findOpts.SetSort(sortSpec(opts.Sort))
		}
		if opts.Limit > 0 {
			findOpts.SetLimit(opts.Limit)
		}
		cur, err := col.Find(ctx, filter, findOpts)
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		var docs []core.Doc
		if err := cur.All(ctx, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	pipeline, err := a.buildPipeline(filter, opts)
	if err != nil {
		return nil, err
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []core.Doc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err := a.shapeLookups(docs, opts.Lookup); err != nil {
		return nil, err
	}
	return docs, nil
}

// translateQuery rewrites an abstract filter into a native one. Unless the
// caller already constrains the class field, the full descendant set of the
// requested class's base storage class is injected so that a find by base
// class matches every concrete subclass. A mixin class additionally requires
// its facet key to exist on the row; carrier documents keep their own
// concrete class in the class field, so the injected set is always the
// carriers', never the mixin's.
func (a *Adapter) translateQuery(class core.ClassID, query core.Doc) bson.M {
	filter := bson.M{}
	for key, value := range query {
		filter[key] = translateValue(value)
	}
	base := a.hierarchy.BaseClassOf(class)
	if _, ok := query[core.FieldClass]; !ok {
		filter[core.FieldClass] = bson.M{"$in": a.hierarchy.DescendantsOf(base)}
	}
	if base != class {
		filter[string(class)] = bson.M{"$exists": true}
	}
	return filter
}

// translateValue rewrites a sole-key $like predicate; any other object
// value passes through as native filter syntax.
func translateValue(value any) any {
	m, ok := asMap(value)
	if !ok || len(m) != 1 {
		return value
	}
	pattern, ok := m[opLike]
	if !ok {
		return value
	}
	text, ok := pattern.(string)
	if !ok {
		return value
	}
	return likeToRegex(text)
}

// likeToRegex converts a LIKE pattern to an anchored case-insensitive
// regular expression. Everything except the % wildcard matches literally.
func likeToRegex(pattern string) bson.M {
	parts := strings.Split(pattern, "%")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return bson.M{
		"$regex":   "^" + strings.Join(parts, ".*") + "$",
		"$options": "i",
	}
}

// buildPipeline assembles the aggregation for a lookup-bearing query:
// match, one join stage per non-model lookup target, sort, limit.
func (a *Adapter) buildPipeline(filter bson.M, opts *core.FindOptions) ([]bson.M, error) {
	pipeline := []bson.M{{"$match": filter}}
	for _, field := range sortedFields(opts.Lookup) {
		domain, err := a.hierarchy.DomainOf(opts.Lookup[field])
		if err != nil {
			return nil, err
		}
		if domain == core.DomainModel {
			// Model-domain targets resolve from the cache after the round
			// trip, not in the store.
			continue
		}
		pipeline = append(pipeline, bson.M{"$lookup": bson.M{
			"from":         string(domain),
			"localField":   field,
			"foreignField": core.FieldID,
			"as":           field + core.LookupSuffix,
		}})
	}
	if len(opts.Sort) > 0 {
		spec := bson.D{}
		for _, key := range opts.Sort {
			spec = append(spec, bson.E{Key: pipelineSortField(key.Field), Value: int(key.Order)})
		}
		pipeline = append(pipeline, bson.M{"$sort": spec})
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.M{"$limit": opts.Limit})
	}
	return pipeline, nil
}

// pipelineSortField retargets a lookup-prefixed sort key to the join stage's
// working array field.
func pipelineSortField(field string) string {
	if !strings.HasPrefix(field, core.LookupPrefix) {
		return field
	}
	field = strings.TrimPrefix(field, core.LookupPrefix)
	if i := strings.Index(field, "."); i >= 0 {
		return field[:i] + core.LookupSuffix + field[i:]
	}
	return field + core.LookupSuffix
}

func sortSpec(keys []core.SortKey) bson.D {
	spec := bson.D{}
	for _, key := range keys {
		spec = append(spec, bson.E{Key: key.Field, Value: int(key.Order)})
	}
	return spec
}

// sortedFields keeps join stage order deterministic.
func sortedFields(lookup map[string]core.ClassID) []string {
	fields := make([]string, 0, len(lookup))
	for field := range lookup {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// asMap normalizes the map shapes a filter or operator payload can arrive
// in.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case core.Doc:
		return v, true
	case map[string]any:
		return v, true
	case bson.M:
		return v, true
	}
	return nil, false
}
