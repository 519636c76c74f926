// Package paste reduces rich clipboard content to the plain text with <i>
// markers that the site's text areas store.
package paste

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Clipboard holds both flavours a paste may carry. Either may be empty.
type Clipboard struct {
	HTML string
	Text string
}

// Sanitize returns the text a paste inserts. With HTML present every <p>
// contributes its runs, italic ones wrapped in <i></i>, followed by a
// newline. When the HTML yields nothing the plain text is used as is.
func Sanitize(c Clipboard) string {
	if strings.TrimSpace(c.HTML) != "" {
		if out := fromHTML(c.HTML); out != "" {
			return out
		}
	}
	return c.Text
}

func fromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			for run := n.FirstChild; run != nil; run = run.NextSibling {
				writeRun(&b, run)
			}
			b.WriteByte('\n')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if strings.TrimSpace(b.String()) == "" {
		return ""
	}
	return b.String()
}

func writeRun(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			return
		}
		text := textContent(n)
		if text == "" {
			return
		}
		if italic(n) {
			b.WriteString("<i>")
			b.WriteString(text)
			b.WriteString("</i>")
			return
		}
		b.WriteString(text)
	}
}

func italic(n *html.Node) bool {
	if n.DataAtom == atom.I || n.DataAtom == atom.Em {
		return true
	}
	for _, a := range n.Attr {
		if a.Key != "style" {
			continue
		}
		for _, decl := range strings.Split(a.Val, ";") {
			prop, val, ok := strings.Cut(decl, ":")
			if !ok {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(prop), "font-style") &&
				strings.EqualFold(strings.TrimSpace(val), "italic") {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Insert replaces the rune range [start, end) of value with text and returns
// the new value and the caret position just after the inserted text.
// Out-of-range or reversed bounds are clamped.
func Insert(value string, start, end int, text string) (string, int) {
	runes := []rune(value)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	var b strings.Builder
	b.Grow(len(value) + len(text))
	b.WriteString(string(runes[:start]))
	b.WriteString(text)
	b.WriteString(string(runes[end:]))
	return b.String(), start + utf8.RuneCountInString(text)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
