package schema

import (
	"reflect"
	"strings"
)

// Build derives a Schema from the `mongonorm` struct tags of model.
// The tag format is
//
//	mongonorm:"name,type[,pk][,embed][,index][,unique]"
//
// Untagged fields are skipped.  An empty name part falls back to the
// snake_cased Go field name.
//
//	type User struct {
//	    ID    string    `mongonorm:"id,objectid,pk"`
//	    Name  string    `mongonorm:"name,string,index"`
//	    Age   int       `mongonorm:"age,integer"`
//	    Group string    `mongonorm:"group,objectid,embed"`
//	    Joined time.Time `mongonorm:"joined,datetime"`
//	}
func Build(model any) Schema {
	rt := reflect.TypeOf(model)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	out := make(Schema, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("mongonorm")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		if name == "" {
			name = snake(f.Name)
		}

		var fd Field
		for _, a := range parts[1:] {
			switch strings.ToLower(a) {
			case "pk":
				fd.PrimaryKey = true
			case "embed":
				fd.Embed = true
			case "index":
				fd.Index = true
			case "unique":
				fd.Unique = true
			default:
				if t := ParseType(a); t != Unknown {
					fd.Type = t
				}
			}
		}
		out[name] = fd
	}
	return out
}

// snake converts CamelCase to snake_case.
func snake(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}
