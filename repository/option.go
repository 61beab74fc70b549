package repository

// Opt layers one more entry onto the raw query description before it is
// normalized.  Options apply in order, so a later Opt wins over an
// earlier one and over the caller's own map.
type Opt func(map[string]any)

// Where sets the filter clause.
func Where(clause map[string]any) Opt {
	return func(o map[string]any) { o["where"] = clause }
}

// Select lists the fields to include in returned documents.
func Select(fields ...string) Opt {
	return func(o map[string]any) { o["select"] = fields }
}

// Prune lists the fields to exclude from returned documents.
func Prune(fields ...string) Opt {
	return func(o map[string]any) { o["prune"] = fields }
}

// SortAsc sorts ascending on field.
func SortAsc(field string) Opt { return sortOpt(field, 1) }

// SortDesc sorts descending on field.
func SortDesc(field string) Opt { return sortOpt(field, -1) }

func sortOpt(field string, dir int) Opt {
	return func(o map[string]any) {
		// copy-on-write so the caller's own sort map is never mutated
		sort := map[string]any{}
		if prev, ok := o["sort"].(map[string]any); ok {
			for k, v := range prev {
				sort[k] = v
			}
		}
		sort[field] = dir
		o["sort"] = sort
	}
}

// Limit caps the number of returned documents.
func Limit(n int) Opt {
	return func(o map[string]any) { o["limit"] = n }
}

// Skip offsets into the result set.
func Skip(n int) Opt {
	return func(o map[string]any) { o["skip"] = n }
}

// GroupBy turns the request into an aggregation grouped on fields.
func GroupBy(fields ...string) Opt {
	return func(o map[string]any) { o["groupBy"] = fields }
}

// Sum requests a per-group sum of each field.
func Sum(fields ...string) Opt {
	return func(o map[string]any) { o["sum"] = fields }
}

// Avg requests a per-group average of each field.
func Avg(fields ...string) Opt {
	return func(o map[string]any) { o["average"] = fields }
}

// Min requests a per-group minimum of each field.
func Min(fields ...string) Opt {
	return func(o map[string]any) { o["min"] = fields }
}

// Max requests a per-group maximum of each field.
func Max(fields ...string) Opt {
	return func(o map[string]any) { o["max"] = fields }
}
