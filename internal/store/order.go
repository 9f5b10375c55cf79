package store

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/nhle/flowboard/internal/model"
)

// Order is a parsed orderBy expression: a field name, descending when it
// carried a leading "-".
type Order struct {
	Field string
	Desc  bool
}

// ParseOrder parses an orderBy expression such as "title" or "-updated_date".
func ParseOrder(expr string) Order {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "-") {
		return Order{Field: expr[1:], Desc: true}
	}
	return Order{Field: expr}
}

// String renders the order back into its expression form.
func (o Order) String() string {
	if o.Field == "" {
		return ""
	}
	if o.Desc {
		return "-" + o.Field
	}
	return o.Field
}

// Compare orders two records by the field. A missing or null value sorts
// after any present value in both directions; only the comparison of two
// present values is flipped for descending order.
func (o Order) Compare(a, b model.Record) int {
	if o.Field == "" {
		return 0
	}
	av, bv := a[o.Field], b[o.Field]
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return 1
	case bv == nil:
		return -1
	}
	c := compareValues(av, bv)
	if o.Desc {
		return -c
	}
	return c
}

// SortRecords stably sorts records in place by the orderBy expression.
func SortRecords(records []model.Record, orderBy string) {
	o := ParseOrder(orderBy)
	if o.Field == "" {
		return
	}
	slices.SortStableFunc(records, o.Compare)
}

// value kinds, in cross-kind sort order.
const (
	kindBool = iota
	kindNumber
	kindString
	kindArray
	kindObject
	kindOther
)

func kindOf(v any) int {
	switch v.(type) {
	case bool:
		return kindBool
	case float64, float32, int, int32, int64, json.Number:
		return kindNumber
	case string:
		return kindString
	case []any:
		return kindArray
	case map[string]any, model.Record:
		return kindObject
	default:
		return kindOther
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}

// compareValues compares two non-nil values of the same kind by their
// native ordering. Values of different kinds order by kind.
func compareValues(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	switch ka {
	case kindBool:
		ab, bb := a.(bool), b.(bool)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case kindNumber:
		return cmp.Compare(toFloat(a), toFloat(b))
	case kindString:
		return compareUTF16(a.(string), b.(string))
	}
	return 0
}

// compareUTF16 orders strings by UTF-16 code units, the way browsers compare
// them. It differs from byte order only when a character outside the Basic
// Multilingual Plane meets one in U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	x, y := a, b
	for x != "" && y != "" {
		ra, na := utf8.DecodeRuneInString(x)
		rb, nb := utf8.DecodeRuneInString(y)
		if ra != rb {
			return slices.Compare(utf16.AppendRune(nil, ra), utf16.AppendRune(nil, rb))
		}
		x, y = x[na:], y[nb:]
	}
	if c := cmp.Compare(len(x), len(y)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
