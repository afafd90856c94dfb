package report

import (
	"github.com/sw33tLie/rumscope/pkg/page"
	"github.com/sw33tLie/rumscope/pkg/scripts"
	"github.com/sw33tLie/rumscope/pkg/session"
	"github.com/sw33tLie/rumscope/pkg/shifts"
	"github.com/sw33tLie/rumscope/pkg/vitals"
)

// Performance marks and measures read by the input-delay report.
const (
	MarkDocStart = "docStart"
	MarkDocEnd   = "docEnd"

	MeasureDocument        = "document execution time"
	MeasureBeforeHydration = "Next.js-before-hydration"
	MeasureHydration       = "Next.js-hydration"
	MeasureRender          = "Next.js-render"
)

// Builder turns metric emissions into reports. Context must be captured
// before the builder is used; Page is only read by InputDelay.
type Builder struct {
	Context *session.Context
	Page    page.Page
}

func (b *Builder) context() session.Context {
	if b.Context == nil {
		return session.Context{}
	}
	return *b.Context
}

func (b *Builder) LayoutShift(m vitals.CLS) LayoutShift {
	return LayoutShift{
		Name:    m.Name,
		Value:   m.Value,
		Delta:   m.Delta,
		Shifts:  shifts.Filter(m.Entries),
		Context: b.context(),
	}
}

// Paint reports on the first entry only.
func (b *Builder) Paint(m vitals.LCP) Paint {
	r := Paint{
		Name:    m.Name,
		Value:   m.Value,
		Delta:   m.Delta,
		Context: b.context(),
	}
	if len(m.Entries) > 0 {
		e := m.Entries[0]
		r.Element = &PaintElement{
			Size:     e.Size,
			Duration: e.Duration,
			URL:      e.URL,
		}
	}
	return r
}

func (b *Builder) InputDelay(m vitals.FID) InputDelay {
	r := InputDelay{
		Name:    m.Name,
		Value:   m.Value,
		Delta:   m.Delta,
		Scripts: scripts.Inventory{},
		Context: b.context(),
	}
	if b.Page == nil {
		return r
	}

	doc := b.Page.Document()
	r.ScriptsOnPage = scripts.Count(doc)
	r.Scripts = scripts.Scan(doc)
	r.DocumentLoadTimeMS = optional(b.Page.Measure(MeasureDocument, MarkDocStart, MarkDocEnd))
	r.BeforeHydrationMS = optional(b.Page.Measurement(MeasureBeforeHydration))
	r.HydrationMS = optional(b.Page.Measurement(MeasureHydration))
	r.RenderMS = optional(b.Page.Measurement(MeasureRender))
	return r
}

func (b *Builder) LoadTiming(m vitals.TTFB) LoadTiming {
	return LoadTiming{
		Name:    m.Name,
		Value:   m.Value,
		Delta:   m.Delta,
		Context: b.context(),
	}
}

func optional(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}
