package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// parseSort normalizes a sort spec.  The identifier alias is rewritten
// to the canonical key; 0 and -1 mean descending, everything else
// (including 1, true and strings) ascending.
func parseSort(raw any) (bson.M, error) {
	spec, ok := toMap(raw)
	if !ok {
		return nil, fmt.Errorf("query: sort must be a map, got %T", raw)
	}

	out := bson.M{}
	for field, order := range spec {
		if field == "id" {
			field = idKey
		}
		out[field] = sortOrder(order)
	}
	return out, nil
}

func sortOrder(v any) int {
	if n, ok := toInt64(v); ok && (n == 0 || n == -1) {
		return -1
	}
	return 1
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	case float32:
		if float64(n) == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}
