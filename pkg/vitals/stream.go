package vitals

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Logger abstracts logging so callers can plug in logrus or anything with
// the same methods.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Warnf(string, ...interface{})  {}

// maxLineSize is large enough for CLS payloads with many sources.
const maxLineSize = 4 << 20

// Stream is a Source that replays newline-delimited metric JSON, as
// recorded from a browser session.
type Stream struct {
	r   io.Reader
	log Logger

	cls  func(CLS)
	fid  func(FID)
	lcp  func(LCP)
	ttfb func(TTFB)
}

// NewStream returns a Stream reading from r. log may be nil.
func NewStream(r io.Reader, log Logger) *Stream {
	if log == nil {
		log = nopLogger{}
	}
	return &Stream{r: r, log: log}
}

func (s *Stream) OnCLS(fn func(CLS))   { s.cls = fn }
func (s *Stream) OnFID(fn func(FID))   { s.fid = fn }
func (s *Stream) OnLCP(fn func(LCP))   { s.lcp = fn }
func (s *Stream) OnTTFB(fn func(TTFB)) { s.ttfb = fn }

// Run reads the whole stream and dispatches each metric to its handler in
// order. Lines that fail to decode are logged and skipped. It returns the
// number of metrics dispatched.
func (s *Stream) Run() (int, error) {
	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	dispatched := 0
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		m, err := Decode(raw)
		if err != nil {
			s.log.Warnf("Skipping metric on line %d: %v", line, err)
			continue
		}
		if s.dispatch(m) {
			dispatched++
		} else {
			s.log.Debugf("No handler registered for metric on line %d", line)
		}
	}
	if err := sc.Err(); err != nil {
		return dispatched, fmt.Errorf("reading metric stream: %w", err)
	}
	return dispatched, nil
}

func (s *Stream) dispatch(m any) bool {
	switch v := m.(type) {
	case CLS:
		if s.cls != nil {
			s.cls(v)
			return true
		}
	case FID:
		if s.fid != nil {
			s.fid(v)
			return true
		}
	case LCP:
		if s.lcp != nil {
			s.lcp(v)
			return true
		}
	case TTFB:
		if s.ttfb != nil {
			s.ttfb(v)
			return true
		}
	}
	return false
}
