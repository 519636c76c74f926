package tui

import (
	"errors"
	"strings"

	"edat-cli/internal/fragment"
	"edat-cli/internal/model"
	"edat-cli/internal/store"
	"edat-cli/internal/terminal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// responseMsg carries the answer to a command line or a submit.
type responseMsg struct {
	submit bool
	sent   bool
	body   []byte
	err    error
}

// runLine parses line on the update loop, so an invalid line never leaves
// the command box, and sends the plan's command off it.
func (m appModel) runLine(line string) (appModel, tea.Cmd) {
	line = strings.TrimSpace(line)
	if line == "" {
		return m, nil
	}

	plan, err := m.session.Parse(line)
	if err != nil {
		m.invalid = true
		m.log.Debug("invalid command", "line", line, "err", err)
		m.record(store.Entry{Line: line, Outcome: store.OutcomeInvalid})
		return m, nil
	}

	m.pushRecall(line)
	m.command.SetValue("")
	m.invalid = false

	// Nothing to send: the response, its form and the bound submit stay.
	if plan.Command == nil {
		m.record(store.Entry{Line: line, Outcome: store.OutcomeNothing})
		m.showMinibuffer("nothing to send")
		return m, nil
	}

	m.clearResponse()
	m.clearMinibuffer()
	m.pending = true
	m.pendingWhat = plan.Command.CommandName()

	entry := store.Entry{Line: line, Command: plan.Command.CommandName(), Outcome: store.OutcomeSent}
	if b, err := model.Encode(plan.Command); err == nil {
		entry.Payload = string(b)
	}

	ctx, sess, hist, log := m.ctx, m.session, m.history, m.log
	return m, func() tea.Msg {
		body, err := sess.Run(ctx, plan)
		if err != nil {
			entry.Outcome = store.OutcomeFailed
			entry.Error = err.Error()
		}
		if hist != nil {
			if _, herr := hist.Append(ctx, entry); herr != nil {
				log.Warn("history append failed", "err", herr)
			}
		}
		return responseMsg{sent: true, body: body, err: err}
	}
}

// submit runs the bound continuation against a snapshot of the form.
func (m appModel) submit() (appModel, tea.Cmd) {
	if m.frag == nil || !m.frag.Submit {
		return m, nil
	}
	form := formSnapshot(m.fields)
	m.pending = true
	m.pendingWhat = "submit"
	m.clearMinibuffer()

	ctx, sess := m.ctx, m.session
	return m, func() tea.Msg {
		body, err := sess.Submit(ctx, form)
		return responseMsg{submit: true, sent: body != nil, body: body, err: err}
	}
}

func (m appModel) handleResponse(msg responseMsg) (appModel, tea.Cmd) {
	m.pending = false
	m.pendingWhat = ""

	switch {
	case errors.Is(msg.err, terminal.ErrIncomplete):
		m.showError("fill in the required fields first")
		return m, nil
	case msg.err != nil:
		m.log.Warn("dispatch failed", "err", msg.err)
		m.showError(msg.err.Error())
		return m, nil
	case msg.body == nil:
		if msg.submit {
			m.showMinibuffer("nothing to submit")
		} else if !msg.sent {
			m.showMinibuffer("nothing to send")
		}
		return m, nil
	}

	cmd := m.applyFragment(msg.body)

	return m, cmd
}

// applyFragment replaces the response region with body and rebuilds the
// form from its fields.
func (m *appModel) applyFragment(body []byte) tea.Cmd {
	frag, err := fragment.Parse(body)
	if err != nil {
		m.log.Warn("fragment parse failed", "err", err)
		m.frag = nil
		m.fields = nil
		m.response.SetContent(string(body))
		return m.setFocus(focusCommand, 0)
	}
	frag.ProcessUTCs(m.loc)

	m.frag = frag
	m.fields = fieldsFromFragment(frag, m.width)
	m.keys.Submit.SetEnabled(frag.Submit)
	m.keys.CopyURL.SetEnabled(frag.Image)
	m.imageInfo = ""
	m.feedback = nil
	m.resize()
	m.renderResponse()

	if len(m.fields) > 0 {
		return m.setFocus(focusField, 0)
	}
	return m.setFocus(focusCommand, 0)
}

func (m *appModel) renderResponse() {
	if m.frag == nil {
		m.response.SetContent("")
		return
	}
	var parts []string
	for _, e := range m.frag.Errors {
		parts = append(parts, styleError().Render("! "+e))
	}
	md, err := m.conv.Markdown(m.frag)
	if err != nil {
		m.log.Warn("markdown conversion failed", "err", err)
		md = string(m.frag.Raw)
	}
	if out := renderMarkdown(md, m.width-2); out != "" {
		parts = append(parts, out)
	}
	m.response.SetContent(lipgloss.JoinVertical(lipgloss.Left, parts...))
	m.response.GotoTop()
}

func (m *appModel) clearResponse() {
	m.frag = nil
	m.fields = nil
	m.fieldIdx = 0
	m.imageInfo = ""
	m.feedback = nil
	m.keys.Submit.SetEnabled(false)
	m.keys.CopyURL.SetEnabled(false)
	m.response.SetContent("")
	m.resize()
}

func (m *appModel) record(e store.Entry) {
	if m.history == nil {
		return
	}
	if _, err := m.history.Append(m.ctx, e); err != nil {
		m.log.Warn("history append failed", "err", err)
	}
}

func (m *appModel) pushRecall(line string) {
	if n := len(m.recall); n == 0 || m.recall[n-1] != line {
		m.recall = append(m.recall, line)
	}
	m.recallIdx = len(m.recall)
	m.draft = ""
}

// recallStep moves through earlier lines (delta -1) or back toward the
// line being typed (delta +1).
func (m *appModel) recallStep(delta int) {
	if len(m.recall) == 0 {
		return
	}
	if m.recallIdx == len(m.recall) {
		m.draft = m.command.Value()
	}
	idx := m.recallIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(m.recall) {
		idx = len(m.recall)
	}
	m.recallIdx = idx
	if idx == len(m.recall) {
		m.command.SetValue(m.draft)
	} else {
		m.command.SetValue(m.recall[idx])
	}
	m.command.CursorEnd()
	m.invalid = false
}
