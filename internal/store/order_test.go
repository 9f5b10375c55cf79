package store

import (
	"testing"

	"github.com/nhle/flowboard/internal/model"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		expr string
		want Order
	}{
		{"", Order{}},
		{"title", Order{Field: "title"}},
		{"-updated_date", Order{Field: "updated_date", Desc: true}},
		{" -points ", Order{Field: "points", Desc: true}},
	}

	for _, tt := range tests {
		got := ParseOrder(tt.expr)
		if got != tt.want {
			t.Errorf("ParseOrder(%q) = %+v, want %+v", tt.expr, got, tt.want)
		}
		if tt.expr != "" && got.String() != ParseOrder(got.String()).String() {
			t.Errorf("String() of %q does not round-trip", tt.expr)
		}
	}
}

func TestCompareNullsLastInBothDirections(t *testing.T) {
	present := model.Record{"v": 1.0}
	null := model.Record{"v": nil}
	missing := model.Record{}

	for _, o := range []Order{{Field: "v"}, {Field: "v", Desc: true}} {
		if c := o.Compare(present, null); c >= 0 {
			t.Errorf("%s: present vs null = %d, want < 0", o, c)
		}
		if c := o.Compare(missing, present); c <= 0 {
			t.Errorf("%s: missing vs present = %d, want > 0", o, c)
		}
		if c := o.Compare(null, missing); c != 0 {
			t.Errorf("%s: null vs missing = %d, want 0", o, c)
		}
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"numbers", 1.5, 2.0, -1},
		{"int and float", 3, 3.0, 0},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"bool before number", true, 0.0, -1},
		{"number before string", 100.0, "1", -1},
		{"arrays tie", []any{1.0}, []any{2.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSortRecordsIsStable(t *testing.T) {
	records := []model.Record{
		{"id": "a", "p": "high"},
		{"id": "b", "p": "low"},
		{"id": "c", "p": "high"},
		{"id": "d", "p": "low"},
	}

	SortRecords(records, "-p")

	want := []string{"b", "d", "a", "c"}
	for i, r := range records {
		if r.ID() != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i], r.ID())
		}
	}
}

func TestQueryDoesNotModifyInput(t *testing.T) {
	records := []model.Record{
		{"id": "a", "n": 2.0},
		{"id": "b", "n": 1.0},
	}

	out := Query(records, nil, "n", 1)

	if len(out) != 1 || out[0].ID() != "b" {
		t.Fatalf("expected [b], got %v", out)
	}
	if records[0].ID() != "a" {
		t.Fatalf("expected input order to be untouched")
	}
}

func TestCompareStringsByUTF16Units(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abd", -1},
		{"ab", "abc", -1},
		{"کار", "کار", 0},
		{"a", "کار", -1},
		// U+1F600 encodes as a surrogate pair below U+FF5E.
		{"😀", "～", -1},
		{"x～", "x😀", 1},
	}

	for _, tt := range tests {
		if got := compareUTF16(tt.a, tt.b); got != tt.want {
			t.Errorf("compareUTF16(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	records := []model.Record{
		{"id": "tilde", "title": "～"},
		{"id": "emoji", "title": "😀 launch"},
	}
	SortRecords(records, "title")
	if records[0].ID() != "emoji" {
		t.Fatalf("expected emoji title first, got %s", records[0].ID())
	}
}
