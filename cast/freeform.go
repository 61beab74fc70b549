package cast

import (
	"strconv"
	"time"
)

// Caster is the freeform coercion collaborator used whenever a field
// has no declared schema type.  Implementations infer the type from the
// literal shape of the value alone.
type Caster interface {
	Coerce(v any) any
}

// Default is the Caster used when none is injected.
var Default Caster = BestEffort{}

// BestEffort infers numbers, booleans and timestamps from string
// literals and leaves everything else alone.
type BestEffort struct{}

// Coerce applies shape-based inference to v.
func (BestEffort) Coerce(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return s
}
