package fragment

import (
	"bytes"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Converter renders fragments as markdown. Form controls are left out since
// the terminal shows them as widgets of their own.
type Converter struct {
	converter *md.Converter
}

func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// widgetAtoms are dropped from the markdown rendition.
var widgetAtoms = map[atom.Atom]bool{
	atom.Input:    true,
	atom.Textarea: true,
	atom.Button:   true,
	atom.Img:      true,
	atom.Label:    true,
	atom.Script:   true,
	atom.Style:    true,
}

var widgetIDs = map[string]bool{IDProcessing: true, IDImageFeedback: true}

func (c *Converter) Markdown(f *Fragment) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, f.doc); err != nil {
		return "", err
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		return "", err
	}

	var drop []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if widgetAtoms[n.DataAtom] || widgetIDs[attr(n, "id")] {
				drop = append(drop, n)
				return
			}
			// The site marks identifiers with <mono>.
			if n.Data == "mono" {
				n.Data, n.DataAtom = "code", atom.Code
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)
	for _, n := range drop {
		n.Parent.RemoveChild(n)
	}

	body := findBody(doc)
	if body == nil {
		return "", nil
	}
	var inner strings.Builder
	for ch := body.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := html.Render(&inner, ch); err != nil {
			return "", err
		}
	}

	out, err := c.converter.ConvertString(inner.String())
	if err != nil {
		return "", err
	}
	return cleanMarkdown(out), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// cleanMarkdown collapses blank runs, trims trailing spaces and removes
// control characters other than newlines and tabs.
func cleanMarkdown(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = excessiveLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(s)
}
