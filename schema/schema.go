// Package schema describes the shape of a collection for query
// normalization: which fields exist, what type each one carries, which
// field is the primary key and which fields are embedded references.
//
//	s := schema.Schema{
//	    "id":    {Type: schema.ObjectID, PrimaryKey: true},
//	    "name":  {Type: schema.String},
//	    "age":   {Type: schema.Integer},
//	    "owner": {Type: schema.ObjectID, Embed: true},
//	}
//
// A Schema is immutable for the lifetime of a translation pass; it is
// borrowed read-only by the query and cast packages.
package schema

import "strings"

// FieldType is the closed set of declared field types.  The zero value
// (Unknown) means "no type declared" and routes coercion to the freeform
// caster.
type FieldType int

const (
	Unknown FieldType = iota
	String
	Integer
	Float
	Boolean
	Date
	Time
	Datetime
	ObjectID
	Array
	Binary
	JSON
	Text
	Mediumtext
	Longtext
)

// StringLike reports whether values of this type are plain text.  The
// text column variants behave exactly like String.
func (t FieldType) StringLike() bool {
	switch t {
	case String, Text, Mediumtext, Longtext:
		return true
	}
	return false
}

// Temporal reports whether the type is one of the date/time variants.
func (t FieldType) Temporal() bool {
	switch t {
	case Date, Time, Datetime:
		return true
	}
	return false
}

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Time:
		return "time"
	case Datetime:
		return "datetime"
	case ObjectID:
		return "objectid"
	case Array:
		return "array"
	case Binary:
		return "binary"
	case JSON:
		return "json"
	case Text:
		return "text"
	case Mediumtext:
		return "mediumtext"
	case Longtext:
		return "longtext"
	}
	return "unknown"
}

// ParseType resolves a type name into the enum.  Case is folded once
// here so the rest of the library never compares type strings again.
func ParseType(name string) FieldType {
	switch strings.ToLower(name) {
	case "string":
		return String
	case "integer", "int":
		return Integer
	case "float", "double":
		return Float
	case "boolean", "bool":
		return Boolean
	case "date":
		return Date
	case "time":
		return Time
	case "datetime":
		return Datetime
	case "objectid":
		return ObjectID
	case "array":
		return Array
	case "binary":
		return Binary
	case "json":
		return JSON
	case "text":
		return Text
	case "mediumtext":
		return Mediumtext
	case "longtext":
		return Longtext
	}
	return Unknown
}

// Field is the descriptor attached to a single attribute.
type Field struct {
	Type FieldType

	// Embed marks a reference resolved to a sub-document; filters on the
	// field are rewritten to query the embedded document's identifier.
	Embed bool

	// PrimaryKey marks the collection's primary key.  At most one field
	// per schema should carry it.
	PrimaryKey bool

	// Index / Unique request a secondary index when EnsureIndexes runs.
	// They play no role in query normalization.
	Index  bool
	Unique bool
}

// Schema maps attribute names to their descriptors.
type Schema map[string]Field

// Lookup returns the descriptor for name, reporting whether it exists.
func (s Schema) Lookup(name string) (Field, bool) {
	f, ok := s[name]
	return f, ok
}

// TypeOf returns the declared type of name, or Unknown when the field
// is absent from the schema.
func (s Schema) TypeOf(name string) FieldType {
	return s[name].Type
}

// PrimaryKey returns the name of the field flagged as primary key, or
// "" when none is declared.
func (s Schema) PrimaryKey() string {
	for name, f := range s {
		if f.PrimaryKey {
			return name
		}
	}
	return ""
}
