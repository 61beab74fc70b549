package query

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseExpressionBareScalar(t *testing.T) {
	q := newQuery(t)
	require.Equal(t, 42, q.parseExpression("age", 42))
}

func TestParseExpressionMembership(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("age", []any{"18", "19"})

	require.Equal(t, bson.M{"$in": []any{int64(18), int64(19)}}, out)
}

func TestParseExpressionComparisons(t *testing.T) {
	q := newQuery(t)

	cases := []struct {
		tok string
		op  string
	}{
		{"<", "$lt"}, {"lessThan", "$lt"}, {"lt", "$lt"},
		{"<=", "$lte"}, {"lessThanOrEqual", "$lte"}, {"LTE", "$lte"},
		{">", "$gt"}, {"greaterThan", "$gt"}, {"gt", "$gt"},
		{">=", "$gte"}, {"GreaterThanOrEqual", "$gte"}, {"gte", "$gte"},
	}
	for _, tc := range cases {
		out := q.parseExpression("age", map[string]any{tc.tok: "18"})
		require.Equal(t, bson.M{tc.op: int64(18)}, out, "modifier %q", tc.tok)
	}
}

func TestParseExpressionComparisonKeepsNumericType(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("age", map[string]any{">": 18})

	require.Equal(t, bson.M{"$gt": 18}, out)
}

func TestParseExpressionPatternModifiers(t *testing.T) {
	q := newQuery(t)

	cases := []struct {
		tok     string
		operand string
		pattern string
	}{
		{"contains", "foo", "^.*foo.*$"},
		{"like", "f%o", "^f.*o$"},
		{"startsWith", "foo", "^foo.*$"},
		{"endsWith", "foo", "^.*foo$"},
	}
	for _, tc := range cases {
		out := q.parseExpression("name", map[string]any{tc.tok: tc.operand})
		require.Equal(t,
			bson.M{"$regex": bson.Regex{Pattern: tc.pattern, Options: "i"}},
			out, "modifier %q", tc.tok)
	}
}

func TestParseExpressionPatternEscapesMetacharacters(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("name", map[string]any{"contains": "a.b"})

	require.Equal(t,
		bson.M{"$regex": bson.Regex{Pattern: `^.*a\.b.*$`, Options: "i"}},
		out)
}

func TestParseExpressionNotScalar(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("name", map[string]any{"!": "bob"})

	// not-equal keeps the raw literal, never a regex
	require.Equal(t, bson.M{"$ne": "bob"}, out)
}

func TestParseExpressionNotWordAnyCase(t *testing.T) {
	q := newQuery(t)
	for _, tok := range []string{"not", "NOT", "Not"} {
		out := q.parseExpression("age", map[string]any{tok: "18"})
		require.Equal(t, bson.M{"$ne": int64(18)}, out, "modifier %q", tok)
	}
}

func TestParseExpressionNotSequence(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("name", map[string]any{"!": []any{"a", "b"}})

	require.Equal(t, bson.M{"$nin": []any{"a", "b"}}, out)
}

func TestParseExpressionNotNested(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("name", map[string]any{
		"not": map[string]any{"contains": "foo"},
	})

	require.Equal(t, bson.M{
		"$not": bson.M{"$regex": bson.Regex{Pattern: "^.*foo.*$", Options: "i"}},
	}, out)
}

func TestParseExpressionUnknownModifierPassthrough(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("age", map[string]any{"$mod": []any{4, 0}})

	require.Equal(t, bson.M{"$mod": []any{4, 0}}, out)
}

func TestParseExpressionPrimaryKeyUnwrap(t *testing.T) {
	q := newQuery(t)
	// a full related document was supplied instead of its identifier
	out := q.parseExpression("id", map[string]any{
		"id": "507f1f77bcf86cd799439011",
	})

	oid, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	require.Equal(t, oid, out)
}

func TestParseExpressionNonPrimaryKeyNotUnwrapped(t *testing.T) {
	q := newQuery(t)
	out := q.parseExpression("name", map[string]any{"name": "x"})

	// "name" is not the primary key: the inner key is treated as an
	// unrecognised modifier, its operand coerced like any other value
	require.Equal(t, bson.M{
		"name": bson.Regex{Pattern: "^x$", Options: "i"},
	}, out)
}
