package shifts

import (
	"strconv"
	"strings"

	"github.com/sw33tLie/rumscope/pkg/vitals"
)

// Threshold is the smallest shift value worth reporting.
const Threshold = 0.02

const keyPrefix = "shift_"

// Record is the diagnostic summary of one significant layout shift.
// Rect sizes come from the last source of the entry and are nil when no
// source carried them.
type Record struct {
	Value                        float64  `json:"value"`
	InitialHeight                *float64 `json:"initialHeight"`
	InitialWidth                 *float64 `json:"initialWidth"`
	EndHeight                    *float64 `json:"endHeight"`
	EndWidth                     *float64 `json:"endWidth"`
	SourceElementClassLists      []string `json:"sourceElementClassLists"`
	SourceElementParentClassList []string `json:"sourceElementParentClassList"`
}

// Set maps shift_1, shift_2, ... to records.
type Set map[string]Record

// Key returns the key of the n-th significant shift, counting from 1.
func Key(n int) string {
	return keyPrefix + strconv.Itoa(n)
}

// IsKey reports whether k is a shift key.
func IsKey(k string) bool {
	n, ok := strings.CutPrefix(k, keyPrefix)
	if !ok {
		return false
	}
	i, err := strconv.Atoi(n)
	return err == nil && i > 0
}

// Filter keeps entries whose value reaches Threshold and numbers them in
// pass order. An entry without sources, nodes or parents still yields a
// record, just without classes or sizes.
func Filter(entries []vitals.LayoutShiftEntry) Set {
	out := make(Set)
	n := 0
	for _, e := range entries {
		if e.Value < Threshold {
			continue
		}
		n++
		out[Key(n)] = extract(e)
	}
	return out
}

func extract(e vitals.LayoutShiftEntry) Record {
	rec := Record{Value: e.Value}
	classes := newOrderedSet()
	parents := newOrderedSet()

	for _, src := range e.Sources {
		if src.Node != nil {
			classes.add(src.Node.ClassList...)
			if src.Node.Parent != nil {
				parents.add(src.Node.Parent.ClassList...)
			}
		}
		// Sizes are overwritten per source; the last one wins.
		rec.InitialHeight, rec.InitialWidth = rectSize(src.PreviousRect)
		rec.EndHeight, rec.EndWidth = rectSize(src.CurrentRect)
	}

	rec.SourceElementClassLists = classes.items
	rec.SourceElementParentClassList = parents.items
	return rec
}

func rectSize(r *vitals.Rect) (height, width *float64) {
	if r == nil {
		return nil, nil
	}
	h, w := r.Height, r.Width
	return &h, &w
}

type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool), items: []string{}}
}

func (s *orderedSet) add(vals ...string) {
	for _, v := range vals {
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.items = append(s.items, v)
	}
}
