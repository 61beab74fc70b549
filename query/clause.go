package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// parseClause walks one level of the filter tree.  Each entry is either
// a logical composition of sub-clauses, the `like` sugar, or a field
// paired with an expression.
func (q *Query) parseClause(clause map[string]any) bson.M {
	out := bson.M{}

	for key, val := range clause {
		folded := strings.ToLower(key)
		if folded == "or" {
			key = "$or"
		}

		switch key {
		case "$or", "$and", "$nor":
			seq, ok := toSlice(val)
			if !ok {
				// malformed logical branch: drop, never error
				continue
			}
			subs := make(bson.A, 0, len(seq))
			for _, el := range seq {
				if sub, ok := toMap(el); ok {
					subs = append(subs, q.parseClause(sub))
				} else {
					subs = append(subs, el)
				}
			}
			out[key] = subs
			continue
		}

		if folded == "like" {
			// sugar: {like: {name: "f%"}} expands to per-field regex
			// expressions at this nesting level
			patterns, ok := toMap(val)
			if !ok {
				continue
			}
			for f, pat := range patterns {
				out[f] = q.parseExpression(f, map[string]any{"like": pat})
			}
			continue
		}

		expr := q.parseExpression(key, val)

		if key == "id" {
			if _, taken := clause[idKey]; !taken {
				key = idKey
			}
		}
		if fd, ok := q.schema.Lookup(key); ok && fd.Embed {
			// embedded reference: query the sub-document's identifier
			key += "." + idKey
		}
		out[key] = expr
	}

	return out
}
