package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type user struct {
	ID      string    `mongonorm:"id,objectid,pk"`
	Name    string    `mongonorm:"name,string"`
	Age     int       `mongonorm:"age,integer"`
	Balance float64   `mongonorm:"balance,float"`
	Active  bool      `mongonorm:"active,boolean"`
	Joined  time.Time `mongonorm:"joined,datetime"`
	Ignored string
}

func TestDecodeStruct(t *testing.T) {
	oid, err := bson.ObjectIDFromHex("507f1f77bcf86cd799439011")
	require.NoError(t, err)

	u, err := Decode[user](bson.M{
		"_id":     oid,
		"name":    "Ada",
		"age":     int32(30),
		"balance": 12.5,
		"active":  true,
		"joined":  bson.DateTime(1700000000000),
		"Ignored": "never mapped",
	})
	require.NoError(t, err)

	require.Equal(t, oid.Hex(), u.ID)
	require.Equal(t, "Ada", u.Name)
	require.Equal(t, 30, u.Age)
	require.Equal(t, 12.5, u.Balance)
	require.True(t, u.Active)
	require.Equal(t, time.UnixMilli(1700000000000).UTC(), u.Joined)
	require.Empty(t, u.Ignored)
}

func TestDecodeMissingAndNilFieldsStayZero(t *testing.T) {
	u, err := Decode[user](bson.M{"name": nil, "age": int64(9)})
	require.NoError(t, err)

	require.Empty(t, u.Name)
	require.Equal(t, 9, u.Age)
	require.Empty(t, u.ID)
}

func TestDecodeUnconvertibleValueSkipped(t *testing.T) {
	u, err := Decode[user](bson.M{"age": []any{1, 2}})
	require.NoError(t, err)
	require.Zero(t, u.Age)
}

func TestDecodeNumericStrings(t *testing.T) {
	u, err := Decode[user](bson.M{"age": "42", "balance": " 3.5 ", "active": "1"})
	require.NoError(t, err)

	require.Equal(t, 42, u.Age)
	require.Equal(t, 3.5, u.Balance)
	require.True(t, u.Active)
}

func TestDecodeMapFastPath(t *testing.T) {
	doc := bson.M{"a": 1, "b": "two"}
	m, err := Decode[map[string]any](doc)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	// the copy is detached from the source document
	m["a"] = 99
	require.Equal(t, 1, doc["a"])
}

func TestDecodeSlice(t *testing.T) {
	users, err := DecodeSlice[user]([]bson.M{
		{"name": "Ada"},
		{"name": "Lin", "age": int64(7)},
	})
	require.NoError(t, err)

	require.Len(t, users, 2)
	require.Equal(t, "Ada", users[0].Name)
	require.Equal(t, "Lin", users[1].Name)
	require.Equal(t, 7, users[1].Age)
}
