package session

import (
	"math/rand/v2"
	"strings"

	"github.com/sw33tLie/rumscope/pkg/page"
)

// Context is the per-page-load metadata attached to every report. It is
// captured once and must not be modified afterwards.
type Context struct {
	SessionID    string  `json:"sessionID"`
	Pathname     string  `json:"pathname"`
	ScreenWidth  int     `json:"screenWidth"`
	ScreenHeight int     `json:"screenHeight"`
	Browser      string  `json:"browser"`
	Platform     *string `json:"platform"`
	Vendor       *string `json:"vendor"`
}

// IDGenerator returns a new session identifier.
type IDGenerator func() string

const (
	idLength   = 9
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewID returns "_" followed by 9 random base-36 characters. It is meant
// for grouping analytics events, not for anything security sensitive.
func NewID() string {
	var b strings.Builder
	b.Grow(idLength + 1)
	b.WriteByte('_')
	for i := 0; i < idLength; i++ {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return b.String()
}

// Capture reads the environment once. Platform and Vendor stay nil when
// the browser exposes no structured user-agent data or leaves them empty.
func Capture(env page.Environment, gen IDGenerator) *Context {
	if gen == nil {
		gen = NewID
	}
	w, h := env.Viewport()
	c := &Context{
		SessionID:    gen(),
		Pathname:     env.Pathname(),
		ScreenWidth:  w,
		ScreenHeight: h,
		Browser:      env.UserAgent(),
	}
	if ud, ok := env.UserAgentData(); ok {
		c.Platform = optional(ud.Platform)
		c.Vendor = optional(ud.Vendor)
	}
	return c
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
