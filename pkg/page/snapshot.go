package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// Snapshot is a Page backed by a recorded page load. Fixture format:
//
//	{
//	  "url": "https://shop.example.com/products/42",
//	  "innerWidth": 1280, "innerHeight": 720,
//	  "userAgent": "Mozilla/5.0 ...",
//	  "userAgentData": {"platform": "macOS", "vendor": "Google Inc."},
//	  "html": "<html>...</html>",          // or "htmlFile": "page.html"
//	  "marks": {"docStart": 12.5},
//	  "measures": {"Next.js-hydration": 48.1},
//	  "mountedAt": 950
//	}
type Snapshot struct {
	location *url.URL
	width    int
	height   int
	ua       string
	uaData   *UserAgentData
	doc      *goquery.Document

	mu       sync.Mutex
	marks    map[string]float64
	measures map[string]float64
	clock    func() float64
}

// Load reads a snapshot fixture from disk. A relative htmlFile is resolved
// against the fixture's directory.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read page fixture: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse builds a snapshot from fixture JSON.
func Parse(data []byte, baseDir string) (*Snapshot, error) {
	if !gjson.Valid(string(data)) {
		return nil, errors.New("page fixture is not valid JSON")
	}
	fx := gjson.ParseBytes(data)

	loc, err := url.Parse(fx.Get("url").String())
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	s := &Snapshot{
		location: loc,
		width:    int(fx.Get("innerWidth").Int()),
		height:   int(fx.Get("innerHeight").Int()),
		ua:       fx.Get("userAgent").String(),
		marks:    make(map[string]float64),
		measures: make(map[string]float64),
	}

	if ud := fx.Get("userAgentData"); ud.IsObject() {
		s.uaData = &UserAgentData{
			Platform: ud.Get("platform").String(),
			Vendor:   ud.Get("vendor").String(),
		}
	}

	fx.Get("marks").ForEach(func(k, v gjson.Result) bool {
		s.marks[k.String()] = v.Float()
		return true
	})
	fx.Get("measures").ForEach(func(k, v gjson.Result) bool {
		s.measures[k.String()] = v.Float()
		return true
	})

	var markup []byte
	switch {
	case fx.Get("html").Exists():
		markup = []byte(fx.Get("html").String())
	case fx.Get("htmlFile").Exists():
		p := fx.Get("htmlFile").String()
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		if markup, err = os.ReadFile(p); err != nil {
			return nil, fmt.Errorf("could not read page html: %w", err)
		}
	}

	s.doc, err = ParseHTML(bytes.NewReader(markup), loc)
	if err != nil {
		return nil, err
	}

	mountedAt := fx.Get("mountedAt").Float()
	loaded := time.Now()
	s.clock = func() float64 {
		return mountedAt + float64(time.Since(loaded))/float64(time.Millisecond)
	}
	return s, nil
}

// ParseHTML parses markup into a goquery document whose Url is base, so
// relative script sources resolve the way a browser resolves them.
func ParseHTML(r io.Reader, base *url.URL) (*goquery.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse page html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	doc.Url = base
	return doc, nil
}

// SetClock replaces the timeline clock. fn returns milliseconds.
func (s *Snapshot) SetClock(fn func() float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = fn
}

func (s *Snapshot) Pathname() string {
	if s.location == nil || s.location.Path == "" {
		return "/"
	}
	return s.location.Path
}

func (s *Snapshot) Viewport() (int, int) { return s.width, s.height }

func (s *Snapshot) UserAgent() string { return s.ua }

func (s *Snapshot) UserAgentData() (UserAgentData, bool) {
	if s.uaData == nil {
		return UserAgentData{}, false
	}
	return *s.uaData, true
}

func (s *Snapshot) Document() *goquery.Document { return s.doc }

func (s *Snapshot) Mark(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[name] = s.clock()
}

func (s *Snapshot) Measure(name, startMark, endMark string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, ok := s.marks[startMark]
	if !ok {
		return 0, false
	}
	end, ok := s.marks[endMark]
	if !ok {
		return 0, false
	}
	s.measures[name] = end - start
	return end - start, true
}

func (s *Snapshot) Measurement(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.measures[name]
	return d, ok
}
