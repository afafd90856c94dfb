package collector

import (
	"github.com/sw33tLie/rumscope/pkg/page"
	"github.com/sw33tLie/rumscope/pkg/report"
	"github.com/sw33tLie/rumscope/pkg/session"
	"github.com/sw33tLie/rumscope/pkg/vitals"
)

// Deliverer takes ownership of a finished report. Deliver must not block
// on the network.
type Deliverer interface {
	Deliver(r report.Report)
}

// Options tweaks Mount. The zero value is what production uses.
type Options struct {
	// NewID overrides session ID generation.
	NewID session.IDGenerator
}

// Collector is a mounted RUM collector for one page load.
type Collector struct {
	ctx     *session.Context
	builder *report.Builder
	out     Deliverer
}

// Mount marks the end of document execution, captures the session context
// and registers one handler per metric kind on src. Every report built
// afterwards shares the same context.
func Mount(p page.Page, src vitals.Source, out Deliverer, opts Options) *Collector {
	p.Mark(report.MarkDocEnd)
	ctx := session.Capture(p, opts.NewID)

	c := &Collector{
		ctx:     ctx,
		builder: &report.Builder{Context: ctx, Page: p},
		out:     out,
	}

	src.OnCLS(func(m vitals.CLS) { c.out.Deliver(c.builder.LayoutShift(m)) })
	src.OnFID(func(m vitals.FID) { c.out.Deliver(c.builder.InputDelay(m)) })
	src.OnLCP(func(m vitals.LCP) { c.out.Deliver(c.builder.Paint(m)) })
	src.OnTTFB(func(m vitals.TTFB) { c.out.Deliver(c.builder.LoadTiming(m)) })
	return c
}

// Context returns a copy of the captured session context.
func (c *Collector) Context() session.Context {
	return *c.ctx
}
