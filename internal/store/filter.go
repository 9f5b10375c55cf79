package store

import (
	"github.com/nhle/flowboard/internal/model"
)

// Matches reports whether every where field is present on the record with
// a strictly equal value. An empty where matches everything.
func Matches(r model.Record, where model.Where) bool {
	for key, want := range where {
		got, ok := r[key]
		if !ok {
			return false
		}
		if !strictEqual(got, want) {
			return false
		}
	}
	return true
}

// strictEqual compares scalars by kind and value. Arrays and objects are
// never equal to a filter value.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case kindBool:
		return a.(bool) == b.(bool)
	case kindNumber:
		return toFloat(a) == toFloat(b)
	case kindString:
		return a.(string) == b.(string)
	}
	return false
}

// Query filters, sorts and truncates records, in that order. The input
// slice is not modified.
func Query(records []model.Record, where model.Where, orderBy string, limit int) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, where) {
			out = append(out, r)
		}
	}
	SortRecords(out, orderBy)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
