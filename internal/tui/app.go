package tui

import (
	"strings"

	"edat-cli/internal/fragment"
	"edat-cli/internal/paste"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type pasteMsg struct {
	focus    focusArea
	fieldIdx int
	clip     paste.Clipboard
	err      error
}

func (m appModel) Init() tea.Cmd { return textinput.Blink }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderResponse()
		return m, nil

	case responseMsg:
		return m.handleResponse(msg)

	case imageMsg:
		return m.handleImage(msg), nil

	case uploadMsg:
		return m.handleUpload(msg), nil

	case copiedMsg:
		if msg.err != nil {
			m.showError("copy failed: " + msg.err.Error())
		} else {
			m.showMinibuffer("copied " + msg.text)
		}
		return m, nil

	case pasteMsg:
		return m.handlePaste(msg), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			if m.pending {
				return m, nil
			}
			return m.submit()
		case key.Matches(msg, m.keys.Paste):
			return m, m.readClipboard()
		case key.Matches(msg, m.keys.CopyURL):
			return m.copyImageURL()
		case key.Matches(msg, m.keys.Next):
			cmd := m.cycleFocus(1)
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.cycleFocus(-1)
			return m, cmd
		case key.Matches(msg, m.keys.Command):
			cmd := m.setFocus(focusCommand, 0)
			return m, cmd
		case key.Matches(msg, m.keys.PageUp):
			m.response.HalfViewUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.response.HalfViewDown()
			return m, nil
		}
		return m.updateFocused(msg)
	}

	return m.updateFocused(msg)
}

func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusCommand:
		if km, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(km, m.keys.Run):
				if m.pending {
					return m, nil
				}
				return m.runLine(m.command.Value())
			case key.Matches(km, m.keys.Recall):
				m.recallStep(-1)
				return m, nil
			case key.Matches(km, m.keys.Forward):
				m.recallStep(1)
				return m, nil
			}
			m.invalid = false
		}
		m.command, cmd = m.command.Update(msg)
	case focusField:
		if m.fieldIdx < len(m.fields) {
			m.fields[m.fieldIdx], cmd = m.fields[m.fieldIdx].update(msg)
		}
	case focusImageID:
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Run) {
			return m.fetchImage()
		}
		m.imageID, cmd = m.imageID.Update(msg)
	case focusUpload:
		if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Run) {
			return m.startUpload()
		}
		m.uploadPaths, cmd = m.uploadPaths.Update(msg)
	}
	return m, cmd
}

type focusStop struct {
	area focusArea
	idx  int
}

// focusStops lists the focusable widgets in tab order.
func (m appModel) focusStops() []focusStop {
	stops := []focusStop{{focusCommand, 0}}
	for i := range m.fields {
		stops = append(stops, focusStop{focusField, i})
	}
	if m.frag != nil && m.frag.Image {
		stops = append(stops, focusStop{focusImageID, 0}, focusStop{focusUpload, 0})
	}
	return stops
}

func (m *appModel) cycleFocus(delta int) tea.Cmd {
	stops := m.focusStops()
	cur := 0
	for i, s := range stops {
		if s.area == m.focus && (s.area != focusField || s.idx == m.fieldIdx) {
			cur = i
			break
		}
	}
	next := stops[(cur+delta+len(stops))%len(stops)]
	return m.setFocus(next.area, next.idx)
}

func (m *appModel) setFocus(area focusArea, idx int) tea.Cmd {
	m.command.Blur()
	m.imageID.Blur()
	m.uploadPaths.Blur()
	for i := range m.fields {
		m.fields[i].blur()
	}

	m.focus = area
	m.fieldIdx = 0
	switch area {
	case focusField:
		if idx < 0 || idx >= len(m.fields) {
			m.focus = focusCommand
			return m.command.Focus()
		}
		m.fieldIdx = idx
		return m.fields[idx].focus()
	case focusImageID:
		return m.imageID.Focus()
	case focusUpload:
		return m.uploadPaths.Focus()
	default:
		return m.command.Focus()
	}
}

func (m appModel) readClipboard() tea.Cmd {
	focus, idx, ctx := m.focus, m.fieldIdx, m.ctx
	return func() tea.Msg {
		clip, err := paste.Read(ctx)
		return pasteMsg{focus: focus, fieldIdx: idx, clip: clip, err: err}
	}
}

// handlePaste inserts the clipboard into the widget that asked for it. Only
// the #contents area gets the italic-preserving sanitized text.
func (m appModel) handlePaste(msg pasteMsg) appModel {
	if msg.err != nil {
		m.showError("paste: " + msg.err.Error())
		return m
	}
	if msg.focus != m.focus || (m.focus == focusField && msg.fieldIdx != m.fieldIdx) {
		return m
	}

	switch m.focus {
	case focusField:
		if m.fieldIdx >= len(m.fields) {
			return m
		}
		f := &m.fields[m.fieldIdx]
		text := msg.clip.Text
		if f.id == fragment.IDContents && m.frag != nil && m.frag.Contents {
			text = paste.Sanitize(msg.clip)
		}
		f.insert(text)
	case focusCommand:
		insertInto(&m.command, msg.clip.Text)
		m.invalid = false
	case focusImageID:
		insertInto(&m.imageID, msg.clip.Text)
	case focusUpload:
		insertInto(&m.uploadPaths, msg.clip.Text)
	}
	return m
}

func insertInto(ti *textinput.Model, text string) {
	text = strings.ReplaceAll(strings.TrimRight(text, "\n"), "\n", " ")
	pos := ti.Position()
	v, caret := paste.Insert(ti.Value(), pos, pos, text)
	ti.SetValue(v)
	ti.SetCursor(caret)
}

func (m appModel) responseHeight() int {
	// header, command line, minibuffer, help and spacing.
	h := m.height - 7 - m.formHeight()
	if h < 3 {
		h = 3
	}
	return h
}

func (m appModel) formHeight() int {
	h := 0
	for _, f := range m.fields {
		if f.kind == fragment.TextArea {
			h += 1 + f.area.Height()
		} else {
			h += 2
		}
	}
	if m.frag != nil && m.frag.Image {
		h += 5 + len(m.feedback)
	}
	return h
}

func (m *appModel) resize() {
	w := m.width
	if w < 20 {
		w = 20
	}
	m.command.Width = w - 6
	m.imageID.Width = w - 6
	m.uploadPaths.Width = w - 6
	for i := range m.fields {
		m.fields[i].setWidth(w)
	}
	m.response.Width = w
	m.response.Height = m.responseHeight()
}

func (m appModel) View() string {
	w := m.width
	if w < 20 {
		w = 20
	}

	header := lipgloss.NewStyle().Bold(true).Render("edat") + "  " +
		styleMuted().Render("server="+emptyAsDash(m.server)+"  user="+emptyAsDash(m.user))

	sections := []string{header}

	cmdLine := renderInputLine(w-2, m.command.View())
	switch {
	case m.invalid:
		cmdLine += "\n" + styleError().Render("invalid command")
	case m.pending:
		cmdLine += "\n" + lipgloss.NewStyle().Foreground(colorPending).Render("sending "+m.pendingWhat+"…")
	}
	sections = append(sections, cmdLine)

	m.response.Height = m.responseHeight()
	sections = append(sections, normalizePane(m.response.View(), w, m.response.Height))

	for i, f := range m.fields {
		sections = append(sections, f.view(w-2, m.focus == focusField && m.fieldIdx == i))
	}

	if m.frag != nil && m.frag.Image {
		sections = append(sections, m.viewImageConsole(w))
	}

	if m.minibufferText != "" {
		st := lipgloss.NewStyle().Foreground(colorSuccess)
		if m.minibufferErr {
			st = styleError()
		}
		sections = append(sections, st.Render(m.minibufferText))
	}

	help := helpLine(m.keys.Run, m.keys.Submit, m.keys.Next, m.keys.Paste, m.keys.CopyURL, m.keys.Recall, m.keys.PageUp, m.keys.Quit)
	sections = append(sections, lipgloss.NewStyle().Faint(true).Render(help))

	return strings.Join(sections, "\n")
}

func (m appModel) viewImageConsole(w int) string {
	lines := []string{
		styleLabel(m.focus == focusImageID).Render("image id"),
		renderInputLine(w-2, m.imageID.View()),
	}
	if m.imageInfo != "" {
		lines = append(lines, styleMuted().Render(m.imageInfo))
	}
	lines = append(lines,
		styleLabel(m.focus == focusUpload).Render("upload"),
		renderInputLine(w-2, m.uploadPaths.View()),
	)
	lines = append(lines, m.feedback...)
	return strings.Join(lines, "\n")
}

func emptyAsDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
