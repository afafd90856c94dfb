package shifts

import (
	"reflect"
	"testing"

	"github.com/sw33tLie/rumscope/pkg/vitals"
)

func f(v float64) *float64 { return &v }

func TestFilterScenario(t *testing.T) {
	entries := []vitals.LayoutShiftEntry{{
		Value: 0.05,
		Sources: []vitals.LayoutShiftSource{{
			Node:         &vitals.Node{ClassList: []string{"a"}, Parent: &vitals.Node{ClassList: []string{"b"}}},
			PreviousRect: &vitals.Rect{Height: 10, Width: 10},
			CurrentRect:  &vitals.Rect{Height: 20, Width: 20},
		}},
	}}

	got := Filter(entries)
	expect := Set{
		"shift_1": {
			Value:                        0.05,
			InitialHeight:                f(10),
			InitialWidth:                 f(10),
			EndHeight:                    f(20),
			EndWidth:                     f(20),
			SourceElementClassLists:      []string{"a"},
			SourceElementParentClassList: []string{"b"},
		},
	}
	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("unexpected shifts.\nwant: %#v\ngot:  %#v", expect, got)
	}
}

func TestFilterThresholdAndNumbering(t *testing.T) {
	entries := []vitals.LayoutShiftEntry{
		{Value: 0.019},
		{Value: 0.02},
		{Value: 0.001},
		{Value: 0.3},
		{Value: 0.0199999},
		{Value: 0.021},
	}

	got := Filter(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 shifts, got %d: %v", len(got), got)
	}
	want := map[string]float64{"shift_1": 0.02, "shift_2": 0.3, "shift_3": 0.021}
	for k, v := range want {
		rec, ok := got[k]
		if !ok || rec.Value != v {
			t.Fatalf("expected %s=%v, got %v (present=%t)", k, v, rec.Value, ok)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := Filter(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil set, got %#v", got)
	}
	if got := Filter([]vitals.LayoutShiftEntry{{Value: 0.01}}); len(got) != 0 {
		t.Fatalf("expected no shifts below threshold, got %v", got)
	}
}

func TestFilterMalformedEntriesAreIsolated(t *testing.T) {
	entries := []vitals.LayoutShiftEntry{
		{Value: 0.1},
		{Value: 0.1, Sources: []vitals.LayoutShiftSource{{}}},
		{Value: 0.1, Sources: []vitals.LayoutShiftSource{{Node: &vitals.Node{ClassList: []string{"orphan"}}}}},
		{Value: 0.1, Sources: []vitals.LayoutShiftSource{{
			Node:        &vitals.Node{ClassList: []string{"ok"}, Parent: &vitals.Node{ClassList: []string{"wrap"}}},
			CurrentRect: &vitals.Rect{Height: 5, Width: 6},
		}}},
	}

	got := Filter(entries)
	if len(got) != 4 {
		t.Fatalf("expected 4 shifts, got %d", len(got))
	}
	for _, k := range []string{"shift_1", "shift_2"} {
		rec := got[k]
		if len(rec.SourceElementClassLists) != 0 || len(rec.SourceElementParentClassList) != 0 || rec.InitialHeight != nil || rec.EndWidth != nil {
			t.Fatalf("%s: expected empty record, got %#v", k, rec)
		}
	}
	if rec := got["shift_3"]; !reflect.DeepEqual(rec.SourceElementClassLists, []string{"orphan"}) || len(rec.SourceElementParentClassList) != 0 {
		t.Fatalf("shift_3: unexpected classes %#v", rec)
	}
	rec := got["shift_4"]
	if rec.InitialHeight != nil || rec.InitialWidth != nil {
		t.Fatalf("shift_4: expected nil initial size, got %v %v", rec.InitialHeight, rec.InitialWidth)
	}
	if *rec.EndHeight != 5 || *rec.EndWidth != 6 {
		t.Fatalf("shift_4: unexpected end size %v %v", *rec.EndHeight, *rec.EndWidth)
	}
}

func TestFilterAccumulatesClassesAndKeepsLastRect(t *testing.T) {
	entries := []vitals.LayoutShiftEntry{{
		Value: 0.4,
		Sources: []vitals.LayoutShiftSource{
			{
				Node:         &vitals.Node{ClassList: []string{"hero", "banner"}, Parent: &vitals.Node{ClassList: []string{"layout"}}},
				PreviousRect: &vitals.Rect{Height: 100, Width: 300},
				CurrentRect:  &vitals.Rect{Height: 120, Width: 300},
			},
			{
				Node:         &vitals.Node{ClassList: []string{"banner", "cta"}, Parent: &vitals.Node{ClassList: []string{"layout", "footer"}}},
				PreviousRect: &vitals.Rect{Height: 40, Width: 80},
				CurrentRect:  &vitals.Rect{Height: 44, Width: 90},
			},
		},
	}}

	rec := Filter(entries)["shift_1"]
	if !reflect.DeepEqual(rec.SourceElementClassLists, []string{"hero", "banner", "cta"}) {
		t.Fatalf("unexpected class lists %v", rec.SourceElementClassLists)
	}
	if !reflect.DeepEqual(rec.SourceElementParentClassList, []string{"layout", "footer"}) {
		t.Fatalf("unexpected parent class lists %v", rec.SourceElementParentClassList)
	}
	if *rec.InitialHeight != 40 || *rec.InitialWidth != 80 || *rec.EndHeight != 44 || *rec.EndWidth != 90 {
		t.Fatalf("expected sizes from the last source, got %v %v %v %v", *rec.InitialHeight, *rec.InitialWidth, *rec.EndHeight, *rec.EndWidth)
	}
}

func TestIsKey(t *testing.T) {
	cases := map[string]bool{
		"shift_1":   true,
		"shift_12":  true,
		"shift_0":   false,
		"shift_":    false,
		"shift_x":   false,
		"cls_value": false,
	}
	for k, want := range cases {
		if got := IsKey(k); got != want {
			t.Fatalf("IsKey(%q) = %t, want %t", k, got, want)
		}
	}
	if Key(3) != "shift_3" {
		t.Fatalf("unexpected key %q", Key(3))
	}
}
