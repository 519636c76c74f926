// Package fragment reads the HTML fragments the site renders in response to
// terminal commands: which form fields they carry, whether they can be
// submitted, and a markdown rendition for display.
package fragment

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type FieldKind int

const (
	Input FieldKind = iota
	TextArea
)

func (k FieldKind) String() string {
	if k == TextArea {
		return "textarea"
	}
	return "input"
}

// Field is one editable control of a fragment.
type Field struct {
	ID        string
	Label     string
	Kind      FieldKind
	Type      string
	Value     string
	MaxLength int
}

// Well-known element ids.
const (
	IDSubmit        = "submit"
	IDContents      = "contents"
	IDImage         = "image"
	IDImageID       = "image-id"
	IDImageUpload   = "image-upload"
	IDUpload        = "upload"
	IDImageFeedback = "image-feedback"
	IDProcessing    = "processing"
)

// Fragment is the parsed form of one server response.
type Fragment struct {
	Raw    []byte
	Fields []Field
	// Submit is set when the fragment has a #submit button.
	Submit bool
	// Contents is set when the fragment has a #contents text area, the one
	// paste sanitizing applies to.
	Contents bool
	// Image is set for the image console (#image).
	Image bool
	// Errors holds the text of every p.error paragraph.
	Errors []string

	doc *html.Node
}

// consoleIDs are controls driven by the image console itself rather than
// by the bound continuation.
var consoleIDs = map[string]bool{IDImageID: true, IDImageUpload: true}

// Parse reads a fragment. The HTML tokenizer is forgiving, so any byte
// sequence yields a Fragment; malformed markup just produces fewer fields.
func Parse(b []byte) (*Fragment, error) {
	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	f := &Fragment{Raw: b, doc: doc}
	var label string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			id := attr(n, "id")
			switch n.DataAtom {
			case atom.Label:
				label = strings.TrimSpace(textContent(n))
				return
			case atom.Input:
				typ := strings.ToLower(attr(n, "type"))
				if typ == "" {
					typ = "text"
				}
				if id != "" && !consoleIDs[id] && typ != "file" {
					f.Fields = append(f.Fields, Field{
						ID:        id,
						Label:     label,
						Kind:      Input,
						Type:      typ,
						Value:     attr(n, "value"),
						MaxLength: maxLength(n),
					})
				}
				label = ""
			case atom.Textarea:
				if id == IDContents {
					f.Contents = true
				}
				if id != "" {
					f.Fields = append(f.Fields, Field{
						ID:        id,
						Label:     label,
						Kind:      TextArea,
						Value:     textareaValue(n),
						MaxLength: maxLength(n),
					})
				}
				label = ""
				return
			case atom.Button:
				if id == IDSubmit {
					f.Submit = true
				}
			case atom.Img:
				if id == IDImage {
					f.Image = true
				}
			case atom.P:
				if hasClass(n, "error") {
					f.Errors = append(f.Errors, strings.Join(strings.Fields(textContent(n)), " "))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return f, nil
}

// Field returns the field with the given id.
func (f *Fragment) Field(id string) (Field, bool) {
	for _, fl := range f.Fields {
		if fl.ID == id {
			return fl, true
		}
	}
	return Field{}, false
}

// Empty reports whether the fragment has no visible content at all.
func (f *Fragment) Empty() bool {
	return len(bytes.TrimSpace(f.Raw)) == 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func maxLength(n *html.Node) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, "maxlength")))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// textareaValue drops the single newline browsers strip after <textarea>.
func textareaValue(n *html.Node) string {
	return strings.TrimPrefix(textContent(n), "\n")
}
