// Package aggregate turns the grouping options of a raw query
// description into a MongoDB aggregation pipeline.
//
//	p := aggregate.New(map[string]any{
//	    "groupBy": "category",
//	    "sum":     "amount",
//	})
//	pipeline := p.Pipeline() // [{$group: ...}, {$project: ...}]
package aggregate

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/varunjoshi/mongonorm/internal"
)

// Keys is the fixed set of option keys that flag a query as an
// aggregation request.
var Keys = []string{"groupBy", "sum", "average", "min", "max"}

// Detect reports whether options carry at least one aggregation key.
func Detect(options map[string]any) bool {
	return len(internal.Intersect(Keys, internal.Keys(options))) > 0
}

// Planner builds an aggregation plan from raw, untranslated options.
type Planner interface {
	Pipeline() bson.A
}

// Group is the default Planner.  It groups on the groupBy field(s) and
// attaches one accumulator per requested sum/average/min/max field.
type Group struct {
	opts map[string]any
}

// New constructs a Group planner over the raw query options.
func New(options map[string]any) *Group {
	return &Group{opts: options}
}

// reducers maps option keys to their accumulator operators, in a fixed
// order so the produced stages are deterministic.
var reducers = []struct {
	opt string
	op  string
}{
	{"sum", "$sum"},
	{"average", "$avg"},
	{"min", "$min"},
	{"max", "$max"},
}

// Pipeline assembles the $group stage plus a $project that flattens the
// group key back to top-level fields.
func (g *Group) Pipeline() bson.A {
	groupKeys := fieldList(g.opts["groupBy"])

	stage := bson.M{}
	if len(groupKeys) == 0 {
		stage["_id"] = nil
	} else {
		id := bson.M{}
		for _, f := range groupKeys {
			id[f] = "$" + f
		}
		stage["_id"] = id
	}

	project := bson.M{"_id": 0}
	for _, f := range groupKeys {
		project[f] = "$_id." + f
	}
	for _, r := range reducers {
		for _, f := range fieldList(g.opts[r.opt]) {
			stage[f] = bson.M{r.op: "$" + f}
			project[f] = 1
		}
	}

	return bson.A{
		bson.M{"$group": stage},
		bson.M{"$project": project},
	}
}

// fieldList accepts a single field name or a sequence of them.
func fieldList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
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
	}
	return nil
}
