package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Record is a schemaless document held in a collection. Values are
// JSON-normalized: string, float64, bool, nil, []any or map[string]any.
type Record map[string]any

// Patch holds the fields to shallow-merge over an existing record.
type Patch map[string]any

// Where holds field/value pairs that a record must match by strict equality.
type Where map[string]any

// ID returns the record identifier, or "" when absent or not a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a new record with the patch fields laid over r.
// The identifier is never replaced.
func (r Record) Merge(p Patch) Record {
	out := r.Clone()
	for k, v := range p {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// ToRecord converts any JSON-encodable value into a normalized Record.
func ToRecord(v any) (Record, error) {
	if v == nil {
		return Record{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

// NormalizePatch runs p through JSON so its values compare equal to stored ones.
func NormalizePatch(p Patch) (Patch, error) {
	r, err := ToRecord(map[string]any(p))
	if err != nil {
		return nil, err
	}
	return Patch(r), nil
}

// NormalizeWhere runs w through JSON so its values compare equal to stored ones.
func NormalizeWhere(w Where) (Where, error) {
	r, err := ToRecord(map[string]any(w))
	if err != nil {
		return nil, err
	}
	return Where(r), nil
}

// Decode converts a record into a typed entity. A nil record yields nil.
// Fields whose values do not fit T are left at their zero value.
func Decode[T any](r Record) (*T, error) {
	v, _, err := DecodeTolerant[T](r)
	return v, err
}

// DecodeTolerant is Decode that also reports, in sorted order, the fields
// it had to drop because their values do not fit T.
func DecodeTolerant[T any](r Record) (*T, []string, error) {
	if r == nil {
		return nil, nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding record %q: %w", r.ID(), err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err == nil {
		return &out, nil, nil
	}

	// Decode field by field so one stray value does not cost the record.
	out = *new(T)
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dropped []string
	for _, k := range keys {
		field, err := json.Marshal(map[string]any{k: r[k]})
		if err != nil {
			dropped = append(dropped, k)
			continue
		}
		var scratch T
		if err := json.Unmarshal(field, &scratch); err != nil {
			dropped = append(dropped, k)
			continue
		}
		if err := json.Unmarshal(field, &out); err != nil {
			dropped = append(dropped, k)
		}
	}
	return &out, dropped, nil
}

// DecodeAll converts a slice of records into typed entities, preserving order.
func DecodeAll[T any](records []Record) ([]T, error) {
	out, _, err := DecodeAllTolerant[T](records)
	return out, err
}

// DecodeAllTolerant is DecodeAll that also reports the dropped fields per
// record id.
func DecodeAllTolerant[T any](records []Record) ([]T, map[string][]string, error) {
	out := make([]T, 0, len(records))
	var dropped map[string][]string
	for _, r := range records {
		v, fields, err := DecodeTolerant[T](r)
		if err != nil {
			return nil, nil, err
		}
		if v == nil {
			continue
		}
		if len(fields) > 0 {
			if dropped == nil {
				dropped = make(map[string][]string)
			}
			dropped[r.ID()] = fields
		}
		out = append(out, *v)
	}
	return out, dropped, nil
}
