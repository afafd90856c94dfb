package scripts

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/weppos/publicsuffix-go/publicsuffix"
)

const inlineURL = "inline"

// Descriptor describes how one script element is loaded.
type Descriptor struct {
	Name     string `json:"name"`
	Deferred bool   `json:"deferred"`
	Async    bool   `json:"async"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
}

// Inventory maps a derived script name to its descriptor.
type Inventory map[string]Descriptor

// Scan walks the script elements of doc in document order. Sourced scripts
// are keyed by the last segment of their URL path, inline scripts by
// inlineScript0, inlineScript1, ... When two scripts share a name the later
// one wins.
func Scan(doc *goquery.Document) Inventory {
	inv := make(Inventory)
	if doc == nil {
		return inv
	}

	inline := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		d := Descriptor{
			Deferred: hasAttr(s, "defer"),
			Async:    hasAttr(s, "async"),
		}

		src, _ := s.Attr("src")
		if u := resolve(doc.Url, src); u != nil {
			d.Name = lastSegment(u)
			d.URL = u.String()
			d.Domain = registrableDomain(u.Hostname())
		} else {
			d.Name = "inlineScript" + strconv.Itoa(inline)
			d.URL = inlineURL
			inline++
		}
		inv[d.Name] = d
	})
	return inv
}

// Count returns the number of script elements in doc.
func Count(doc *goquery.Document) int {
	if doc == nil {
		return 0
	}
	return doc.Find("script").Length()
}

func hasAttr(s *goquery.Selection, name string) bool {
	_, ok := s.Attr(name)
	return ok
}

// lastSegment returns the escaped path after its final slash, so a
// trailing slash yields "".
func lastSegment(u *url.URL) string {
	p := u.EscapedPath()
	return p[strings.LastIndex(p, "/")+1:]
}

// resolve returns the absolute script URL, or nil for inline scripts.
func resolve(base *url.URL, src string) *url.URL {
	if src == "" {
		return nil
	}
	u, err := url.Parse(src)
	if err != nil {
		return nil
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return u
}

func registrableDomain(host string) string {
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return ""
	}
	return domain
}
