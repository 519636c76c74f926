package tui

import (
	"strings"

	"edat-cli/internal/fragment"
	"edat-cli/internal/paste"
	"edat-cli/internal/terminal"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is one editable control of the current response, backed by a
// textinput or a textarea depending on the fragment field kind.
type formField struct {
	id    string
	label string
	kind  fragment.FieldKind
	input textinput.Model
	area  textarea.Model
}

func newFormField(f fragment.Field, width int) formField {
	ff := formField{id: f.ID, label: f.Label, kind: f.Kind}
	if ff.label == "" {
		ff.label = f.ID
	}

	switch f.Kind {
	case fragment.TextArea:
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.Prompt = ""
		ta.CharLimit = f.MaxLength
		ta.MaxHeight = 0
		ta.KeyMap.Paste.SetEnabled(false)
		ta.SetWidth(fieldWidth(width))
		ta.SetHeight(6)
		ta.SetValue(f.Value)
		ta.Blur()
		ff.area = ta
	default:
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = f.MaxLength
		ti.KeyMap.Paste.SetEnabled(false)
		ti.Width = fieldWidth(width)
		ti.SetValue(f.Value)
		ti.Blur()
		ff.input = ti
	}
	return ff
}

// fieldsFromFragment builds one widget per editable field of frag.
func fieldsFromFragment(frag *fragment.Fragment, width int) []formField {
	if frag == nil {
		return nil
	}
	out := make([]formField, 0, len(frag.Fields))
	for _, f := range frag.Fields {
		out = append(out, newFormField(f, width))
	}
	return out
}

func fieldWidth(width int) int {
	w := width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (f formField) value() string {
	if f.kind == fragment.TextArea {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) focus() tea.Cmd {
	if f.kind == fragment.TextArea {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.kind == fragment.TextArea {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) setWidth(width int) {
	if f.kind == fragment.TextArea {
		f.area.SetWidth(fieldWidth(width))
		return
	}
	f.input.Width = fieldWidth(width)
}

func (f formField) update(msg tea.Msg) (formField, tea.Cmd) {
	var cmd tea.Cmd
	if f.kind == fragment.TextArea {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return f, cmd
}

// insert places text at the caret. Single-line inputs flatten newlines.
func (f *formField) insert(text string) {
	if f.kind == fragment.TextArea {
		f.area.InsertString(text)
		return
	}
	text = strings.ReplaceAll(strings.TrimRight(text, "\n"), "\n", " ")
	pos := f.input.Position()
	v, caret := paste.Insert(f.input.Value(), pos, pos, text)
	f.input.SetValue(v)
	f.input.SetCursor(caret)
}

func (f formField) view(width int, focused bool) string {
	label := styleLabel(focused).Render(f.label)
	if f.kind == fragment.TextArea {
		return label + "\n" + f.area.View()
	}
	return label + "\n" + renderInputLine(width, f.input.View())
}

// formSnapshot copies the current values so a continuation running off the
// update loop never reads widget state.
func formSnapshot(fields []formField) terminal.Fields {
	out := make(terminal.Fields, len(fields))
	for _, f := range fields {
		out[f.id] = f.value()
	}
	return out
}
