package report

import (
	"encoding/json"

	"github.com/sw33tLie/rumscope/pkg/scripts"
	"github.com/sw33tLie/rumscope/pkg/session"
	"github.com/sw33tLie/rumscope/pkg/shifts"
)

// Report is one metric report ready for delivery. Every report encodes as
// a single flat JSON object: metric fields first, then enrichment, then the
// session context. On a key collision the later part wins, so context
// fields are authoritative.
type Report interface {
	json.Marshaler
	MetricName() string
}

// LayoutShift is the CLS report.
type LayoutShift struct {
	Name    string          `json:"name"`
	Value   float64         `json:"cls_value"`
	Delta   float64         `json:"cls_delta"`
	Shifts  shifts.Set      `json:"-"`
	Context session.Context `json:"-"`
}

func (r LayoutShift) MetricName() string { return r.Name }

func (r LayoutShift) MarshalJSON() ([]byte, error) {
	type fields LayoutShift
	return overlay(fields(r), r.Shifts, r.Context)
}

func (r *LayoutShift) UnmarshalJSON(data []byte) error {
	type fields LayoutShift
	var f fields
	raw, err := split(data, &f, &f.Context)
	if err != nil {
		return err
	}
	f.Shifts = make(shifts.Set)
	for k, v := range raw {
		if !shifts.IsKey(k) {
			continue
		}
		var rec shifts.Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		f.Shifts[k] = rec
	}
	*r = LayoutShift(f)
	return nil
}

// PaintElement describes the largest contentful element.
type PaintElement struct {
	Size     float64 `json:"size"`
	Duration float64 `json:"duration"`
	URL      string  `json:"url"`
}

// Paint is the LCP report. Element is nil when the metric had no entries,
// in which case size, duration and url are left out entirely.
type Paint struct {
	Name    string          `json:"name"`
	Value   float64         `json:"lcp_value"`
	Delta   float64         `json:"lcp_delta"`
	Element *PaintElement   `json:"-"`
	Context session.Context `json:"-"`
}

func (r Paint) MetricName() string { return r.Name }

func (r Paint) MarshalJSON() ([]byte, error) {
	type fields Paint
	parts := []any{fields(r)}
	if r.Element != nil {
		parts = append(parts, r.Element)
	}
	return overlay(append(parts, r.Context)...)
}

func (r *Paint) UnmarshalJSON(data []byte) error {
	type fields Paint
	var f fields
	raw, err := split(data, &f, &f.Context)
	if err != nil {
		return err
	}
	if _, ok := raw["size"]; ok {
		f.Element = &PaintElement{}
		if err := json.Unmarshal(data, f.Element); err != nil {
			return err
		}
	}
	*r = Paint(f)
	return nil
}

// InputDelay is the FID report, enriched with script loading and hydration
// timings. Timings are nil when the underlying mark or measure is missing.
type InputDelay struct {
	Name               string            `json:"name"`
	Value              float64           `json:"fid_value"`
	Delta              float64           `json:"fid_delta"`
	DocumentLoadTimeMS *float64          `json:"documentLoadTimeMS"`
	ScriptsOnPage      int               `json:"scriptsOnPage"`
	Scripts            scripts.Inventory `json:"scripts"`
	BeforeHydrationMS  *float64          `json:"beforeHydrationMS"`
	HydrationMS        *float64          `json:"hydrationMS"`
	RenderMS           *float64          `json:"renderMS"`
	Context            session.Context   `json:"-"`
}

func (r InputDelay) MetricName() string { return r.Name }

func (r InputDelay) MarshalJSON() ([]byte, error) {
	type fields InputDelay
	return overlay(fields(r), r.Context)
}

func (r *InputDelay) UnmarshalJSON(data []byte) error {
	type fields InputDelay
	var f fields
	if _, err := split(data, &f, &f.Context); err != nil {
		return err
	}
	*r = InputDelay(f)
	return nil
}

// LoadTiming is the TTFB report.
type LoadTiming struct {
	Name    string          `json:"name"`
	Value   float64         `json:"ttfb_value"`
	Delta   float64         `json:"ttfb_delta"`
	Context session.Context `json:"-"`
}

func (r LoadTiming) MetricName() string { return r.Name }

func (r LoadTiming) MarshalJSON() ([]byte, error) {
	type fields LoadTiming
	return overlay(fields(r), r.Context)
}

func (r *LoadTiming) UnmarshalJSON(data []byte) error {
	type fields LoadTiming
	var f fields
	if _, err := split(data, &f, &f.Context); err != nil {
		return err
	}
	*r = LoadTiming(f)
	return nil
}

// overlay encodes each part as a JSON object and merges them in order.
func overlay(parts ...any) ([]byte, error) {
	merged := make(map[string]json.RawMessage)
	for _, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		var m map[string]json.RawMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
		for k, v := range m {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// split decodes a flat report into each target and returns the raw fields
// for callers that pick up dynamic keys.
func split(data []byte, targets ...any) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, t := range targets {
		if err := json.Unmarshal(data, t); err != nil {
			return nil, err
		}
	}
	return raw, nil
}
