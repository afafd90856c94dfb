package page

import "github.com/PuerkitoBio/goquery"

// UserAgentData is the structured user-agent information some browsers
// expose next to the user-agent string.
type UserAgentData struct {
	Platform string
	Vendor   string
}

// Environment is the read-only view of the browsing context.
type Environment interface {
	Pathname() string
	Viewport() (width, height int)
	UserAgent() string
	// UserAgentData reports false when the browser does not expose it.
	UserAgentData() (UserAgentData, bool)
}

// Timeline is the page's performance timeline. Times are milliseconds.
type Timeline interface {
	Mark(name string)
	// Measure records and returns the time between two existing marks.
	Measure(name, startMark, endMark string) (float64, bool)
	// Measurement returns a measure recorded earlier, by the host or by Measure.
	Measurement(name string) (float64, bool)
}

// Document gives access to the current DOM.
type Document interface {
	Document() *goquery.Document
}

// Page is everything the collector reads from the host page.
type Page interface {
	Environment
	Timeline
	Document
}
