// Package cast coerces raw query values into the types a schema
// declares for them.  Coercion is best-effort by design: anything that
// cannot be converted is handed back unchanged so the data store can
// reject it at execution time instead of the translation failing whole
// queries over one bad operand.
//
//	v, ok := cast.Value("18", schema.Integer) // int64(18), true
//	v, ok = cast.Value("x", schema.Integer)   // "x", false
package cast

import (
	"reflect"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/varunjoshi/mongonorm/schema"
)

// Value coerces v into the declared type t.  The second return reports
// whether a conversion actually happened; callers that only want the
// compatibility behavior (silently keep the original) can ignore it.
//
// Structured values short-circuit: a map is assumed to already be a
// native operator expression and passes through untouched, while a
// slice is coerced element by element with the same type.
func Value(v any, t schema.FieldType) (any, bool) {
	if t == schema.Unknown {
		out := Default.Coerce(v)
		return out, !reflect.DeepEqual(out, v)
	}
	if v == nil {
		return nil, false
	}

	switch v.(type) {
	case map[string]any, bson.M:
		return v, false
	case []byte:
		// binary payload, not a sequence of scalars
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice {
			return castSlice(rv, t)
		}
	}

	switch t {
	case schema.Integer:
		return castInt(v)
	case schema.Float:
		return castFloat(v)
	case schema.Date, schema.Time, schema.Datetime:
		return castTemporal(v)
	case schema.Boolean:
		return castBool(v)
	case schema.ObjectID:
		return castObjectID(v)
	}
	// string/text variants, array, binary, json: identity
	return v, false
}

func castSlice(rv reflect.Value, t schema.FieldType) (any, bool) {
	out := make([]any, rv.Len())
	changed := false
	for i := 0; i < rv.Len(); i++ {
		el, ok := Value(rv.Index(i).Interface(), t)
		out[i] = el
		changed = changed || ok
	}
	return out, changed
}

func castInt(v any) (any, bool) {
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return v, false
}

func castFloat(v any) (any, bool) {
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return v, false
}

// temporalLayouts are tried in order for calendar/time strings.
var temporalLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
}

func castTemporal(v any) (any, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, false
	case bson.DateTime:
		return d, false
	case string:
		if digits(d) {
			// epoch milliseconds
			n, err := strconv.ParseInt(d, 10, 64)
			if err != nil {
				return v, false
			}
			return time.UnixMilli(n).UTC(), true
		}
		for _, layout := range temporalLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts, true
			}
		}
	}
	return v, false
}

func castBool(v any) (any, bool) {
	switch b := v.(type) {
	case bool:
		return b, false
	case string:
		switch b {
		case "1", "true":
			return true, true
		case "0", "false":
			return false, true
		}
		return b != "", true
	case nil:
		return false, true
	}
	// generic truthiness for the remaining scalars
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, true
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, true
	}
	return true, true
}

func castObjectID(v any) (any, bool) {
	s, ok := v.(string)
	if !ok {
		return v, false
	}
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return v, false
	}
	return oid, true
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
