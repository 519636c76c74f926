package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"edat-cli/internal/model"
	"edat-cli/internal/paste"
	"edat-cli/internal/store"
	"edat-cli/internal/terminal"

	tea "github.com/charmbracelet/bubbletea"
)

const volumeForm = `<p><b>Volume <mono>vol-a</mono></b></p>
<label>Title</label><input id="volume-title" maxlength="30" value="Vol A">
<label>Subtitle</label><textarea id="volume-subtitle">Sub</textarea>
<button id="submit">Submit</button>`

const imageConsole = `<p>Images</p><img id="image" src="">
<input id="image-id"><input id="image-upload" type="file" multiple>
<div id="image-feedback"></div>`

type fakeTransport struct {
	mu    sync.Mutex
	sent  []model.Command
	pages map[string]string
	fail  error
}

func (f *fakeTransport) Send(_ context.Context, cmd model.Command) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cmd)
	if f.fail != nil {
		return nil, f.fail
	}
	if page, ok := f.pages[cmd.CommandName()]; ok {
		return []byte(page), nil
	}
	return []byte("<p>" + cmd.CommandName() + " done</p>"), nil
}

func (f *fakeTransport) commands() []model.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Command(nil), f.sent...)
}

type fakeImages struct {
	mu       sync.Mutex
	uploaded []string
}

func (f *fakeImages) ImageURL(id string) string { return "https://edat.example/image/" + id + ".jpg" }

func (f *fakeImages) FetchImage(_ context.Context, id string) ([]byte, string, error) {
	if id == "missing" {
		return nil, "", errors.New("fetch image missing: 404 Not Found")
	}
	return make([]byte, 2048), "image/jpeg", nil
}

func (f *fakeImages) UploadFile(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, path)
	if strings.Contains(path, "bad") {
		return nil, errors.New("upload refused")
	}
	return []byte("<p>stored " + filepath.Base(path) + "</p>"), nil
}

type memHistory struct {
	mu      sync.Mutex
	entries []store.Entry
}

func (h *memHistory) Append(_ context.Context, e store.Entry) (store.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return e, nil
}

func (h *memHistory) Lines(_ context.Context, _ int) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e.Line)
	}
	return out, nil
}

func (h *memHistory) all() []store.Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]store.Entry(nil), h.entries...)
}

func newTestModel(t *testing.T, ft *fakeTransport, hist *memHistory) (appModel, *fakeImages) {
	t.Helper()
	imgs := &fakeImages{}
	opts := Options{Session: terminal.NewSession(ft), Images: imgs, Server: "https://edat.example/", User: "owner"}
	if hist != nil {
		opts.History = hist
	}
	m := newAppModel(context.Background(), opts)
	m.width, m.height = 100, 40
	m.resize()
	return m, imgs
}

func pasteClip(html, text string) paste.Clipboard {
	return paste.Clipboard{HTML: html, Text: text}
}

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	am, ok := mm.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", mm)
	}
	return am, cmd
}

// enter types line into the command box, presses enter and delivers the
// response message.
func enter(t *testing.T, m appModel, line string) appModel {
	t.Helper()
	m.command.SetValue(line)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		return m
	}
	msg := cmd()
	if _, ok := msg.(responseMsg); !ok {
		t.Fatalf("enter %q: got %T, want responseMsg", line, msg)
	}
	m, _ = update(t, m, msg)
	return m
}

func TestEnterRendersResponseAndForm(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)

	m.command.SetValue("get volume vol-a")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.pending || cmd == nil {
		t.Fatalf("expected a pending dispatch; pending=%v cmd=%v", m.pending, cmd != nil)
	}
	if m.command.Value() != "" {
		t.Fatalf("command box should clear on send, got %q", m.command.Value())
	}

	// Enter while pending is ignored.
	m.command.SetValue("volumes")
	if _, cmd2 := update(t, m, tea.KeyMsg{Type: tea.KeyEnter}); cmd2 != nil {
		t.Fatalf("enter while pending should not dispatch")
	}
	m.command.SetValue("")

	m, _ = update(t, m, cmd())
	if m.pending {
		t.Fatalf("response should clear pending")
	}
	if len(m.fields) != 2 || m.fields[0].id != "volume-title" || m.fields[1].id != "volume-subtitle" {
		t.Fatalf("fields: %+v", m.fields)
	}
	if m.fields[0].input.CharLimit != 30 {
		t.Fatalf("maxlength: got %d, want 30", m.fields[0].input.CharLimit)
	}
	if !m.keys.Submit.Enabled() {
		t.Fatalf("submit should be bound when the fragment has #submit")
	}
	if m.focus != focusField || m.fieldIdx != 0 {
		t.Fatalf("focus: got %v/%d, want first field", m.focus, m.fieldIdx)
	}
	if v := m.View(); !strings.Contains(v, "vol-a") {
		t.Fatalf("view should show the rendered fragment:\n%s", v)
	}
}

func TestSubmitSendsContinuation(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm, "SetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "get volume vol-a")

	m.fields[0].input.SetValue("My Vol")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.pending || cmd == nil {
		t.Fatalf("ctrl+s should dispatch the continuation")
	}
	m, _ = update(t, m, cmd())

	sent := ft.commands()
	last, ok := sent[len(sent)-1].(model.SetVolume)
	if !ok {
		t.Fatalf("last command: got %T, want SetVolume", sent[len(sent)-1])
	}
	if last.ID != "vol-a" || last.Title != "My Vol" || last.Subtitle != "Sub" {
		t.Fatalf("SetVolume: %+v", last)
	}

	// The continuation renamed the volume; the next submit edits my-vol.
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	update(t, m, cmd())
	sent = ft.commands()
	if got := sent[len(sent)-1].(model.SetVolume).ID; got != "my-vol" {
		t.Fatalf("second submit id: got %q, want my-vol", got)
	}
}

func TestSubmitIncompleteKeepsForm(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "get volume vol-a")

	m.fields[0].input.SetValue("")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, cmd())

	if !m.minibufferErr || !strings.Contains(m.minibufferText, "required") {
		t.Fatalf("minibuffer: %q (err=%v)", m.minibufferText, m.minibufferErr)
	}
	if len(m.fields) != 2 {
		t.Fatalf("form should stay, got %d fields", len(m.fields))
	}
	if n := len(ft.commands()); n != 1 {
		t.Fatalf("nothing should be sent, got %d commands", n)
	}
}

func TestSubmitUnboundWithoutSubmitButton(t *testing.T) {
	ft := &fakeTransport{}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "volumes")

	if m.keys.Submit.Enabled() {
		t.Fatalf("submit should not be bound")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.pending || len(ft.commands()) != 1 {
		t.Fatalf("ctrl+s without #submit should do nothing")
	}
}

func TestInvalidCommandIndicator(t *testing.T) {
	hist := &memHistory{}
	ft := &fakeTransport{}
	m, _ := newTestModel(t, ft, hist)

	m.command.SetValue("frobnicate 1")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.pending {
		t.Fatalf("invalid line must not dispatch")
	}
	if !m.invalid || !strings.Contains(m.View(), "invalid command") {
		t.Fatalf("expected the invalid command indicator")
	}
	if m.command.Value() != "frobnicate 1" {
		t.Fatalf("invalid line should stay in the box, got %q", m.command.Value())
	}
	if got := hist.all(); len(got) != 1 || got[0].Outcome != store.OutcomeInvalid {
		t.Fatalf("history: %+v", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.invalid {
		t.Fatalf("editing should clear the indicator")
	}
	if len(ft.commands()) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestTransportErrorShownInMinibuffer(t *testing.T) {
	ft := &fakeTransport{fail: errors.New("connection refused")}
	hist := &memHistory{}
	m, _ := newTestModel(t, ft, hist)
	m = enter(t, m, "volumes")

	if !m.minibufferErr || !strings.Contains(m.minibufferText, "connection refused") {
		t.Fatalf("minibuffer: %q", m.minibufferText)
	}
	got := hist.all()
	if len(got) != 1 || got[0].Outcome != store.OutcomeFailed || got[0].Command != "Volumes" {
		t.Fatalf("history: %+v", got)
	}
}

func TestNothingToSend(t *testing.T) {
	ft := &fakeTransport{}
	hist := &memHistory{}
	m, _ := newTestModel(t, ft, hist)
	m = enter(t, m, "review track t1 abc")

	if m.pending || len(ft.commands()) != 0 {
		t.Fatalf("review track with a bad score sends nothing")
	}
	if m.minibufferText != "nothing to send" {
		t.Fatalf("minibuffer: %q", m.minibufferText)
	}
	if got := hist.all(); len(got) != 1 || got[0].Outcome != store.OutcomeNothing {
		t.Fatalf("history: %+v", got)
	}
}

func TestNothingToSendKeepsResponse(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm, "SetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "get volume vol-a")
	m.fields[0].input.SetValue("Kept")

	m = enter(t, m, "review track t1 abc")
	m = enter(t, m, "review poem")
	if m.frag == nil || len(m.fields) != 2 || m.fields[0].value() != "Kept" {
		t.Fatalf("form should survive a line that sends nothing, got %+v", m.fields)
	}
	if m.minibufferText != "nothing to send" {
		t.Fatalf("minibuffer: %q", m.minibufferText)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("ctrl+s should still submit the volume form")
	}
	update(t, m, cmd())
	sent := ft.commands()
	last, ok := sent[len(sent)-1].(model.SetVolume)
	if !ok || last.ID != "vol-a" || last.Title != "Kept" {
		t.Fatalf("last command: got %+v, want SetVolume vol-a Kept", sent[len(sent)-1])
	}
}

func TestHistoryRecall(t *testing.T) {
	hist := &memHistory{entries: []store.Entry{{Line: "volumes"}, {Line: "images"}}}
	m, _ := newTestModel(t, &fakeTransport{}, hist)

	m.command.SetValue("get u")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.command.Value(); got != "images" {
		t.Fatalf("up: got %q, want images", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if got := m.command.Value(); got != "volumes" {
		t.Fatalf("up past the start: got %q, want volumes", got)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if got := m.command.Value(); got != "get u" {
		t.Fatalf("down back to draft: got %q, want %q", got, "get u")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "get volume vol-a")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusField || m.fieldIdx != 1 {
		t.Fatalf("tab: got %v/%d", m.focus, m.fieldIdx)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusCommand {
		t.Fatalf("tab should wrap to the command line, got %v", m.focus)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != focusField || m.fieldIdx != 1 {
		t.Fatalf("shift+tab: got %v/%d", m.focus, m.fieldIdx)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focus != focusCommand {
		t.Fatalf("esc: got %v", m.focus)
	}
}

func TestPasteIntoContentsIsSanitized(t *testing.T) {
	page := `<p>Content</p><textarea id="contents"></textarea><button id="submit">Submit</button>`
	ft := &fakeTransport{pages: map[string]string{"GetContent": page}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "content 7")

	if !m.frag.Contents || m.fields[0].id != "contents" {
		t.Fatalf("expected the contents area, got %+v", m.fields)
	}
	m, _ = update(t, m, pasteMsg{
		focus:    focusField,
		fieldIdx: 0,
		clip:     pasteClip(`<p><span>Hello </span><span style="font-style:italic">world</span></p>`, "Hello world"),
	})
	if got := m.fields[0].value(); got != "Hello <i>world</i>\n" {
		t.Fatalf("contents: got %q", got)
	}
}

func TestPasteIntoInputUsesPlainText(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"GetVolume": volumeForm}}
	m, _ := newTestModel(t, ft, nil)
	m = enter(t, m, "get volume vol-a")

	m.fields[0].input.SetCursor(3)
	m, _ = update(t, m, pasteMsg{focus: focusField, fieldIdx: 0, clip: pasteClip("<p><i>x</i></p>", "New\n")})
	if got := m.fields[0].value(); got != "VolNew A" {
		t.Fatalf("input: got %q", got)
	}

	// A paste answering an earlier focus is dropped.
	m, _ = update(t, m, pasteMsg{focus: focusCommand, clip: pasteClip("", "volumes")})
	if m.command.Value() != "" {
		t.Fatalf("stale paste landed in the command box")
	}
}

func TestImageConsole(t *testing.T) {
	ft := &fakeTransport{pages: map[string]string{"Images": imageConsole}}
	m, imgs := newTestModel(t, ft, nil)
	m = enter(t, m, "images")

	if !m.frag.Image || !m.keys.CopyURL.Enabled() {
		t.Fatalf("image console should be wired")
	}
	if len(m.fields) != 0 {
		t.Fatalf("console inputs are not form fields: %+v", m.fields)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusImageID {
		t.Fatalf("tab should reach the image id, got %v", m.focus)
	}
	m.imageID.SetValue("cover")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	if !strings.Contains(m.imageInfo, "image/jpeg") || !strings.Contains(m.imageInfo, "2.0 KiB") ||
		!strings.Contains(m.imageInfo, "/image/cover.jpg") {
		t.Fatalf("image info: %q", m.imageInfo)
	}

	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "bad.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.uploadPaths.SetValue(filepath.Join(dir, "*.jpg"))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("expected one upload per file, got %T", cmd())
	}

	m, _ = update(t, m, batch[0]())
	if m.uploadPaths.Value() == "" {
		t.Fatalf("upload box cleared before the batch finished")
	}
	m, _ = update(t, m, batch[1]())
	if m.uploadPaths.Value() != "" {
		t.Fatalf("upload box should clear once every file answered")
	}
	if len(m.feedback) != 2 || len(imgs.uploaded) != 2 {
		t.Fatalf("feedback %q, uploaded %q", m.feedback, imgs.uploaded)
	}
	if !m.minibufferErr || !strings.Contains(m.minibufferText, "1 of 2") {
		t.Fatalf("minibuffer: %q", m.minibufferText)
	}

	// Results from an earlier batch are ignored.
	before := len(m.feedback)
	m, _ = update(t, m, uploadMsg{batch: m.uploadBatch - 1, path: "old.jpg"})
	if len(m.feedback) != before {
		t.Fatalf("stale upload result was applied")
	}
}
