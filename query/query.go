// Package query translates a generic, backend-agnostic query
// description (a filter tree, sort spec, projection list and optional
// aggregate request) into MongoDB criteria, coercing untyped values
// into the types a schema declares along the way.
//
//	q, err := query.New(map[string]any{
//	    "where":  map[string]any{"age": map[string]any{">": "18"}},
//	    "sort":   map[string]any{"createdAt": 0},
//	    "select": []string{"name", "age"},
//	}, userSchema)
//	// q.Criteria → {where: {age: {$gt: 18}}, sort: {createdAt: -1}, fields: {name: true, age: true}}
//
// Translation is a single synchronous pass: construction eagerly runs
// aggregate detection and criteria normalization, and the result is
// immediately readable.  Malformed input degrades to pass-through
// rather than failing the query; only a structurally impossible shape
// (a non-map where a map is required) is an error.
package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/varunjoshi/mongonorm/aggregate"
	"github.com/varunjoshi/mongonorm/cast"
	"github.com/varunjoshi/mongonorm/schema"
)

// idKey is the store's canonical identifier key.  The public alias "id"
// is rewritten to it in where clauses and sort specs, never in
// select/prune lists or pass-through options.
const idKey = "_id"

// Query holds the outcome of one translation pass.
type Query struct {
	// Aggregate is true when the options carried a grouping key; the
	// Planner was then constructed with the full raw options.
	Aggregate bool
	Planner   aggregate.Planner

	// Criteria is the normalized output: where, sort and fields under
	// those keys plus every pass-through entry.
	Criteria bson.M

	schema   schema.Schema
	freeform cast.Caster
	plan     func(map[string]any) aggregate.Planner
}

// Option customises a Query before it runs.
type Option func(*Query)

// WithCaster swaps the freeform coercion collaborator used for fields
// absent from the schema.
func WithCaster(c cast.Caster) Option {
	return func(q *Query) { q.freeform = c }
}

// WithPlanner swaps the aggregate planner constructor.
func WithPlanner(fn func(map[string]any) aggregate.Planner) Option {
	return func(q *Query) { q.plan = fn }
}

// New runs a full translation pass over options against s.  Both inputs
// are borrowed read-only; the returned Query owns no shared state and
// may be built concurrently from any number of goroutines.
func New(options map[string]any, s schema.Schema, opts ...Option) (*Query, error) {
	q := &Query{
		schema:   s,
		freeform: cast.Default,
		plan:     func(o map[string]any) aggregate.Planner { return aggregate.New(o) },
	}
	for _, o := range opts {
		o(q)
	}

	// Aggregate detection runs exactly once, before normalization, and
	// leaves the options untouched.
	if aggregate.Detect(options) {
		q.Aggregate = true
		q.Planner = q.plan(options)
	}

	criteria, err := q.normalize(options)
	if err != nil {
		return nil, err
	}
	q.Criteria = criteria
	return q, nil
}

// normalize routes each top-level key of the raw options.  The `options`
// mapping merges last so its entries win any collision, including with
// the reserved where/sort/fields keys.
func (q *Query) normalize(options map[string]any) (bson.M, error) {
	out := bson.M{}

	for key, val := range options {
		switch key {
		case "where", "sort", "select", "prune", "options":
		default:
			out[key] = val
		}
	}

	if raw, ok := options["where"]; ok {
		where, err := q.whereClause(raw)
		if err != nil {
			return nil, err
		}
		out["where"] = where
	}

	if raw, ok := options["sort"]; ok {
		sort, err := parseSort(raw)
		if err != nil {
			return nil, err
		}
		out["sort"] = sort
	}

	fields := bson.M{}
	if raw, ok := options["select"]; ok {
		for _, f := range fieldNames(raw) {
			fields[f] = true
		}
	}
	if raw, ok := options["prune"]; ok {
		for _, f := range fieldNames(raw) {
			fields[f] = false
		}
	}
	if len(fields) > 0 {
		out["fields"] = fields
	}

	if raw, ok := options["options"]; ok {
		extra, ok := toMap(raw)
		if !ok {
			return nil, fmt.Errorf("query: options must be a map, got %T", raw)
		}
		for k, v := range extra {
			out[k] = v
		}
	}

	return out, nil
}

// whereClause treats a nil where as an empty clause (matches
// everything); any other non-map shape is a contract violation.
func (q *Query) whereClause(raw any) (bson.M, error) {
	if raw == nil {
		return bson.M{}, nil
	}
	clause, ok := toMap(raw)
	if !ok {
		return nil, fmt.Errorf("query: where must be a map, got %T", raw)
	}
	return q.parseClause(clause), nil
}

// fieldNames accepts the projection list shapes callers actually send.
func fieldNames(raw any) []string {
	switch t := raw.(type) {
	case []string:
		return t
	case []any:
		var out []string
		for _, el := range t {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	}
	return nil
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case bson.M:
		return m, true
	}
	return nil, false
}
