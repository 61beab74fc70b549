package query

import (
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// modifier is the closed set of tokens recognised inside an expression
// mapping.  Anything else resolves to modOther and passes through as a
// literal operator key.
type modifier int

const (
	modEquality modifier = iota
	modNot
	modContains
	modLike
	modStartsWith
	modEndsWith
	modLT
	modLTE
	modGT
	modGTE
	modOther
)

// resolveModifier folds case exactly once; every later comparison is on
// the enum.
func resolveModifier(tok string) modifier {
	switch tok {
	case "!":
		return modNot
	case "<":
		return modLT
	case "<=":
		return modLTE
	case ">":
		return modGT
	case ">=":
		return modGTE
	}
	switch strings.ToLower(tok) {
	case "not":
		return modNot
	case "contains":
		return modContains
	case "like":
		return modLike
	case "startswith":
		return modStartsWith
	case "endswith":
		return modEndsWith
	case "lessthan", "lt":
		return modLT
	case "lessthanorequal", "lte":
		return modLTE
	case "greaterthan", "gt":
		return modGT
	case "greaterthanorequal", "gte":
		return modGTE
	}
	return modOther
}

// comparison operators, indexed by modifier.
var comparisonOps = map[modifier]string{
	modLT:  "$lt",
	modLTE: "$lte",
	modGT:  "$gt",
	modGTE: "$gte",
}

// parseExpression resolves the right-hand side of a field's filter:
// a mapping of modifiers, a membership sequence, or a bare scalar.
func (q *Query) parseExpression(field string, expr any) any {
	// A related document may be passed where its bare identifier was
	// expected; unwrap it before anything else.
	if m, ok := toMap(expr); ok {
		if fd, found := q.schema.Lookup(field); found && fd.PrimaryKey {
			if inner, has := m[field]; has {
				expr = inner
			}
		}
	}

	if m, ok := toMap(expr); ok {
		out := bson.M{}
		for tok, operand := range m {
			q.foldModifier(out, field, tok, operand)
		}
		return out
	}

	if seq, ok := toSlice(expr); ok {
		return bson.M{"$in": q.parseValue(field, modEquality, seq)}
	}

	return q.parseValue(field, modEquality, expr)
}

// foldModifier translates one (modifier, operand) pair into out.
func (q *Query) foldModifier(out bson.M, field, tok string, operand any) {
	mod := resolveModifier(tok)

	switch mod {
	case modNot:
		if m, ok := toMap(operand); ok {
			out["$not"] = q.parseExpression(field, m)
			return
		}
		v := q.parseValue(field, modNot, operand)
		if _, ok := toSlice(v); ok {
			out["$nin"] = v
		} else {
			out["$ne"] = v
		}

	case modContains, modLike, modStartsWith, modEndsWith:
		if s, ok := operand.(string); ok {
			out["$regex"] = patternMatch(mod, s)
			return
		}
		// non-textual operand: the token is not a pattern here, pass it
		// through like any unrecognised modifier
		out[tok] = q.parseValue(field, modOther, operand)

	case modLT, modLTE, modGT, modGTE:
		out[comparisonOps[mod]] = q.parseValue(field, mod, operand)

	default:
		out[tok] = q.parseValue(field, modOther, operand)
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case bson.A:
		return s, true
	case []byte:
		// binary payload, not a membership sequence
		return nil, false
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
