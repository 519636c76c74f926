package fragment

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// TimeLayout is how <utc> timestamps are shown once localized.
const TimeLayout = "2006-01-02 15:04"

// ProcessUTCs replaces the unix timestamp inside every <utc> element with the
// corresponding time in loc. Values that are not integers are left alone.
// Millisecond timestamps are recognised by magnitude.
func (f *Fragment) ProcessUTCs(loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "utc" {
			if t, ok := parseUnix(textContent(node)); ok {
				for c := node.FirstChild; c != nil; {
					next := c.NextSibling
					node.RemoveChild(c)
					c = next
				}
				node.AppendChild(&html.Node{Type: html.TextNode, Data: t.In(loc).Format(TimeLayout)})
				n++
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(f.doc)
	return n
}

func parseUnix(s string) (time.Time, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if v > 1e12 || v < -1e12 {
		return time.UnixMilli(v), true
	}
	return time.Unix(v, 0), true
}
