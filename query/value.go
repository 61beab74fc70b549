package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/varunjoshi/mongonorm/cast"
	"github.com/varunjoshi/mongonorm/internal"
)

// parseValue coerces a raw operand for field under the given modifier
// context.
//
// The literal string "null" always coerces to nil, even for typed
// fields.  Fields absent from the schema delegate entirely to the
// freeform caster.  String-typed fields turn textual equality operands
// into case-insensitive anchored patterns, except under a not-equal,
// where $ne/$nin need the raw literal.
func (q *Query) parseValue(field string, mod modifier, value any) any {
	if s, ok := value.(string); ok && s == "null" {
		return nil
	}

	fd, known := q.schema.Lookup(field)
	if !known {
		return q.freeform.Coerce(value)
	}

	if fd.Type.StringLike() {
		if s, ok := value.(string); ok && mod != modNot {
			return caseInsensitive(s)
		}
	}

	out, _ := cast.Value(value, fd.Type)
	return out
}

// caseInsensitive compiles a plain string into the anchored pattern
// that makes string equality case-insensitive by default.  The `%`
// wildcard survives escaping and becomes `.*`.
func caseInsensitive(s string) bson.Regex {
	return anchored(strings.ReplaceAll(escapeRegex(s), "%", ".*"))
}

// patternMatch builds the regex for the explicit pattern modifiers.
func patternMatch(mod modifier, s string) bson.Regex {
	esc := escapeRegex(s)
	switch mod {
	case modContains:
		esc = ".*" + esc + ".*"
	case modLike:
		esc = strings.ReplaceAll(esc, "%", ".*")
	case modStartsWith:
		esc = esc + ".*"
	case modEndsWith:
		esc = ".*" + esc
	}
	return anchored(esc)
}

// anchored compiles p case-insensitively, anchored at both ends.
func anchored(p string) bson.Regex {
	return bson.Regex{Pattern: "^" + p + "$", Options: "i"}
}

// escapeRegex neutralises regex metacharacters in a caller-supplied
// string.  `%` is deliberately left alone so the wildcard rewrites
// above still find it.
func escapeRegex(s string) string {
	sb := internal.GetBuilder()
	defer internal.PutBuilder(sb)

	for _, r := range s {
		switch r {
		case '\\', '^', '$', '.', '|', '?', '*', '+', '(', ')', '[', ']', '{', '}', '-', ',', '#', '/':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
