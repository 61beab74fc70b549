package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	cases := map[string]FieldType{
		"string":     String,
		"STRING":     String,
		"integer":    Integer,
		"int":        Integer,
		"float":      Float,
		"boolean":    Boolean,
		"date":       Date,
		"time":       Time,
		"datetime":   Datetime,
		"objectid":   ObjectID,
		"ObjectID":   ObjectID,
		"array":      Array,
		"binary":     Binary,
		"json":       JSON,
		"text":       Text,
		"mediumtext": Mediumtext,
		"longtext":   Longtext,
		"whatever":   Unknown,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseType(in), "input %q", in)
	}
}

func TestStringLike(t *testing.T) {
	require.True(t, String.StringLike())
	require.True(t, Text.StringLike())
	require.True(t, Mediumtext.StringLike())
	require.True(t, Longtext.StringLike())
	require.False(t, Integer.StringLike())
	require.False(t, ObjectID.StringLike())
}

func TestBuild(t *testing.T) {
	type User struct {
		ID       string    `mongonorm:"id,objectid,pk"`
		Name     string    `mongonorm:"name,string,index"`
		Email    string    `mongonorm:"email,string,unique"`
		Age      int       `mongonorm:"age,integer"`
		Group    string    `mongonorm:"group,objectid,embed"`
		Joined   time.Time `mongonorm:"joined,datetime"`
		Internal string
	}

	s := Build(User{})

	require.Equal(t, Schema{
		"id":     {Type: ObjectID, PrimaryKey: true},
		"name":   {Type: String, Index: true},
		"email":  {Type: String, Unique: true},
		"age":    {Type: Integer},
		"group":  {Type: ObjectID, Embed: true},
		"joined": {Type: Datetime},
	}, s)

	require.Equal(t, "id", s.PrimaryKey())
	require.Equal(t, Integer, s.TypeOf("age"))
	require.Equal(t, Unknown, s.TypeOf("missing"))
}

func TestBuildNameFallsBackToSnakeCase(t *testing.T) {
	type Row struct {
		CreatedAt int64 `mongonorm:",integer"`
	}

	s := Build(Row{})
	_, ok := s.Lookup("created_at")
	require.True(t, ok)
}

func TestBuildPointerModel(t *testing.T) {
	type Row struct {
		Name string `mongonorm:"name,string"`
	}
	require.Equal(t, Build(Row{}), Build(&Row{}))
}
