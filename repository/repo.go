// Package repository offers a thin façade on top of the query
// normalizer: hand it a raw query description plus options and it runs
// the translated criteria against the store.
//
//	repo := repository.New("orders", conn, schema.Build(Order{}))
//	docs, err := repo.Find(ctx,
//	    map[string]any{"where": map[string]any{"status": "pending"}},
//	    repository.SortDesc("createdAt"),
//	    repository.Limit(100),
//	)
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/varunjoshi/mongonorm/driver"
	"github.com/varunjoshi/mongonorm/internal"
	"github.com/varunjoshi/mongonorm/query"
	"github.com/varunjoshi/mongonorm/schema"
)

// reserved are the criteria keys consumed by the find path itself;
// everything else normalization passed through is ignored here.
var reserved = []string{"where", "sort", "fields", "skip", "limit"}

// Repository binds a collection name, a Runner and the schema used to
// normalize queries against it.
type Repository struct {
	collection string
	runner     driver.Runner
	schema     schema.Schema
}

// New constructs a repository over one collection.
func New(collection string, r driver.Runner, s schema.Schema) *Repository {
	return &Repository{collection: collection, runner: r, schema: s}
}

// Find normalizes the query description and executes it.  Aggregate
// requests (groupBy/sum/average/min/max keys) run the planner pipeline;
// everything else runs a plain find with the translated where, sort,
// fields, skip and limit.
func (r *Repository) Find(ctx context.Context, options map[string]any, opts ...Opt) ([]bson.M, error) {
	merged := make(map[string]any, len(options))
	for k, v := range options {
		merged[k] = v
	}
	for _, o := range opts {
		o(merged)
	}

	qry, err := query.New(merged, r.schema)
	if err != nil {
		return nil, err
	}

	if qry.Aggregate {
		return r.runner.Aggregate(ctx, r.collection, qry.Planner.Pipeline())
	}

	filter, fo := splitCriteria(qry.Criteria)
	return r.runner.Find(ctx, r.collection, filter, fo)
}

// splitCriteria separates the filter from the execution options.
func splitCriteria(criteria bson.M) (bson.M, *driver.FindOptions) {
	filter := bson.M{}
	if w, ok := criteria["where"].(bson.M); ok {
		filter = w
	}

	fo := &driver.FindOptions{}
	if s, ok := criteria["sort"].(bson.M); ok {
		fo.Sort = s
	}
	if f, ok := criteria["fields"].(bson.M); ok {
		fo.Fields = f
	}
	// negative paging values are meaningless, clamp them to zero
	if n, ok := asInt64(criteria["skip"]); ok {
		fo.Skip = internal.Max(n, 0)
	}
	if n, ok := asInt64(criteria["limit"]); ok {
		fo.Limit = internal.Max(n, 0)
	}

	// anything else passed through normalization has no find-time
	// meaning and is ignored here
	return filter, fo
}

// Passthrough reports whether a criteria key is consumed by Find
// itself; callers inspecting the normalized output can use it to pick
// out their own pass-through entries.
func Passthrough(key string) bool {
	return !internal.Contains(reserved, key)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}
