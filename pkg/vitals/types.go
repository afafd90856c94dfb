package vitals

// Metric names as reported by the emitter.
const (
	NameCLS  = "CLS"
	NameFID  = "FID"
	NameLCP  = "LCP"
	NameTTFB = "TTFB"
)

// Metric holds the fields every emitted metric carries.
type Metric struct {
	Name  string
	Value float64
	Delta float64
	ID    string
}

// Rect is the part of a DOMRectReadOnly the pipeline reads.
type Rect struct {
	Width  float64
	Height float64
}

// Node is a read-only view of a DOM element: its classes and its parent.
// Parent is nil for detached nodes or when the emitter did not serialize it.
type Node struct {
	ClassList []string
	Parent    *Node
}

// LayoutShiftSource is one element the browser blamed for a layout shift.
type LayoutShiftSource struct {
	Node         *Node
	PreviousRect *Rect
	CurrentRect  *Rect
}

type LayoutShiftEntry struct {
	Value          float64
	StartTime      float64
	HadRecentInput bool
	Sources        []LayoutShiftSource
}

// PaintEntry is a largest-contentful-paint candidate.
type PaintEntry struct {
	StartTime  float64
	RenderTime float64
	LoadTime   float64
	Duration   float64
	Size       float64
	URL        string
	ID         string
}

type InputEntry struct {
	Name            string
	StartTime       float64
	ProcessingStart float64
	Duration        float64
}

type NavigationEntry struct {
	Type          string
	RequestStart  float64
	ResponseStart float64
}

// CLS is a cumulative layout shift emission.
type CLS struct {
	Metric
	Entries []LayoutShiftEntry
}

// LCP is a largest contentful paint emission.
type LCP struct {
	Metric
	Entries []PaintEntry
}

// FID is a first input delay emission.
type FID struct {
	Metric
	Entries []InputEntry
}

// TTFB is a time to first byte emission.
type TTFB struct {
	Metric
	Entries []NavigationEntry
}

// Source is the metric emitter. Each handler is invoked once per emission,
// never concurrently with another handler of the same source.
type Source interface {
	OnCLS(func(CLS))
	OnFID(func(FID))
	OnLCP(func(LCP))
	OnTTFB(func(TTFB))
}
