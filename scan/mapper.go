// Package scan decodes driver documents into caller structs without
// requiring bson struct tags: fields are matched through the same
// `mongonorm` tags the schema package reads.
package scan

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DecodeSlice decodes documents into []T.  T can be a struct tagged
// with `mongonorm:"field"` or map[string]any.
func DecodeSlice[T any](docs []bson.M) ([]T, error) {
	out := make([]T, len(docs))
	for i, doc := range docs {
		if err := assign(&out[i], doc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode decodes a single document into T.
func Decode[T any](doc bson.M) (T, error) {
	var out T
	err := assign(&out, doc)
	return out, err
}

/*───────────────────────────────
|  Struct assignment w/ cache    |
└───────────────────────────────*/

var metaCache sync.Map // reflect.Type → []fieldMeta

type fieldMeta struct {
	name  string
	index []int
}

func assign[T any](ptr *T, doc bson.M) error {
	// fast-path: target is map[string]any
	var zero T
	if _, ok := any(zero).(map[string]any); ok {
		m := make(map[string]any, len(doc))
		for k, v := range doc {
			m[k] = v
		}
		*ptr = any(m).(T)
		return nil
	}

	val := reflect.ValueOf(ptr).Elem()
	rt := val.Type()

	metaAny, _ := metaCache.Load(rt)
	if metaAny == nil {
		metaAny = buildMeta(rt)
		metaCache.Store(rt, metaAny)
	}
	for _, fm := range metaAny.([]fieldMeta) {
		raw, ok := doc[fm.name]
		if !ok && fm.name == "id" {
			// the store keeps the identifier under its canonical key
			raw, ok = doc["_id"]
		}
		if !ok || raw == nil {
			continue
		}
		setValue(val.FieldByIndex(fm.index), raw)
	}
	return nil
}

func buildMeta(rt reflect.Type) []fieldMeta {
	out := make([]fieldMeta, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("mongonorm")
		if tag == "" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			continue
		}
		out = append(out, fieldMeta{name, f.Index})
	}
	return out
}

// setValue converts the bson-decoded value into the struct field's
// type.  Unconvertible values are skipped, mirroring the forgiving
// coercion philosophy of the query path.
func setValue(f reflect.Value, raw any) {
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(f.Type()) {
		f.Set(rv)
		return
	}

	switch f.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			f.SetString(v)
		case bson.ObjectID:
			f.SetString(v.Hex())
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		switch v := raw.(type) {
		case int32:
			f.SetInt(int64(v))
		case int64:
			f.SetInt(v)
		case float64:
			f.SetInt(int64(v))
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				f.SetInt(n)
			}
		}
	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			f.SetFloat(v)
		case int32:
			f.SetFloat(float64(v))
		case int64:
			f.SetFloat(float64(v))
		case string:
			if fl, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				f.SetFloat(fl)
			}
		}
	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			f.SetBool(v)
		case string:
			f.SetBool(v == "1" || strings.EqualFold(v, "true"))
		}
	case reflect.Struct:
		if f.Type() == reflect.TypeOf(time.Time{}) {
			switch v := raw.(type) {
			case time.Time:
				f.Set(reflect.ValueOf(v))
			case bson.DateTime:
				f.Set(reflect.ValueOf(v.Time().UTC()))
			}
		}
	}
}
