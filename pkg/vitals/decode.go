package vitals

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrInvalidPayload = errors.New("invalid metric payload")

// Decode reads one emitter metric object and returns CLS, LCP, FID or TTFB
// depending on its name. Optional parts of the payload that are missing
// decode to nil or empty values.
func Decode(raw []byte) (any, error) {
	if !gjson.Valid(string(raw)) {
		return nil, ErrInvalidPayload
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, ErrInvalidPayload
	}

	m := Metric{
		Name:  doc.Get("name").String(),
		Value: doc.Get("value").Float(),
		Delta: doc.Get("delta").Float(),
		ID:    doc.Get("id").String(),
	}
	entries := doc.Get("entries").Array()

	switch m.Name {
	case NameCLS:
		out := CLS{Metric: m, Entries: make([]LayoutShiftEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, decodeLayoutShift(e))
		}
		return out, nil
	case NameLCP:
		out := LCP{Metric: m, Entries: make([]PaintEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, PaintEntry{
				StartTime:  e.Get("startTime").Float(),
				RenderTime: e.Get("renderTime").Float(),
				LoadTime:   e.Get("loadTime").Float(),
				Duration:   e.Get("duration").Float(),
				Size:       e.Get("size").Float(),
				URL:        e.Get("url").String(),
				ID:         e.Get("id").String(),
			})
		}
		return out, nil
	case NameFID:
		out := FID{Metric: m, Entries: make([]InputEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, InputEntry{
				Name:            e.Get("name").String(),
				StartTime:       e.Get("startTime").Float(),
				ProcessingStart: e.Get("processingStart").Float(),
				Duration:        e.Get("duration").Float(),
			})
		}
		return out, nil
	case NameTTFB:
		out := TTFB{Metric: m, Entries: make([]NavigationEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, NavigationEntry{
				Type:          e.Get("type").String(),
				RequestStart:  e.Get("requestStart").Float(),
				ResponseStart: e.Get("responseStart").Float(),
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown metric %q", m.Name)
}

func decodeLayoutShift(e gjson.Result) LayoutShiftEntry {
	entry := LayoutShiftEntry{
		Value:          e.Get("value").Float(),
		StartTime:      e.Get("startTime").Float(),
		HadRecentInput: e.Get("hadRecentInput").Bool(),
	}
	for _, s := range e.Get("sources").Array() {
		entry.Sources = append(entry.Sources, LayoutShiftSource{
			Node:         decodeNode(s.Get("node"), 0),
			PreviousRect: decodeRect(s.Get("previousRect")),
			CurrentRect:  decodeRect(s.Get("currentRect")),
		})
	}
	return entry
}

// maxNodeDepth bounds parent chains in hostile payloads; only the first
// parent is ever read.
const maxNodeDepth = 8

func decodeNode(r gjson.Result, depth int) *Node {
	if !r.IsObject() || depth > maxNodeDepth {
		return nil
	}
	n := &Node{}
	for _, c := range r.Get("classList").Array() {
		n.ClassList = append(n.ClassList, c.String())
	}
	n.Parent = decodeNode(r.Get("parentElement"), depth+1)
	return n
}

func decodeRect(r gjson.Result) *Rect {
	if !r.IsObject() {
		return nil
	}
	return &Rect{
		Width:  r.Get("width").Float(),
		Height: r.Get("height").Float(),
	}
}
