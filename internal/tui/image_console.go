package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"edat-cli/internal/fragment"
	"edat-cli/internal/paste"
	"edat-cli/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

type imageMsg struct {
	id          string
	url         string
	size        int
	contentType string
	err         error
}

type uploadMsg struct {
	batch int
	path  string
	body  []byte
	err   error
}

type copiedMsg struct {
	text string
	err  error
}

func (m appModel) fetchImage() (appModel, tea.Cmd) {
	id := strings.TrimSpace(m.imageID.Value())
	if id == "" || m.images == nil {
		return m, nil
	}
	m.imageInfo = "loading " + id + "…"
	ctx, images := m.ctx, m.images
	return m, func() tea.Msg {
		data, ct, err := images.FetchImage(ctx, id)
		return imageMsg{id: id, url: images.ImageURL(id), size: len(data), contentType: ct, err: err}
	}
}

func (m appModel) handleImage(msg imageMsg) appModel {
	if msg.id != strings.TrimSpace(m.imageID.Value()) {
		return m
	}
	if msg.err != nil {
		m.imageInfo = ""
		m.showError(msg.err.Error())
		return m
	}
	m.imageInfo = fmt.Sprintf("%s  %s  %s", msg.contentType, humanSize(msg.size), msg.url)
	return m
}

// startUpload expands the upload box into files and uploads them
// concurrently. The box is cleared only once every file has answered.
func (m appModel) startUpload() (appModel, tea.Cmd) {
	if m.images == nil {
		return m, nil
	}
	paths, err := remote.ExpandPaths(strings.Fields(m.uploadPaths.Value()))
	if err != nil {
		m.showError(err.Error())
		return m, nil
	}
	if len(paths) == 0 {
		return m, nil
	}

	m.uploadBatch++
	m.uploadTally = remote.NewTally(len(paths), nil)
	m.uploadCount = len(paths)
	m.uploadFailed = 0
	m.feedback = nil
	m.showMinibuffer(fmt.Sprintf("uploading %d file(s)…", len(paths)))

	batch, ctx, images := m.uploadBatch, m.ctx, m.images
	cmds := make([]tea.Cmd, 0, len(paths))
	for _, p := range paths {
		cmds = append(cmds, func() tea.Msg {
			body, err := images.UploadFile(ctx, p)
			return uploadMsg{batch: batch, path: p, body: body, err: err}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) handleUpload(msg uploadMsg) appModel {
	if msg.batch != m.uploadBatch || m.uploadTally == nil {
		return m
	}
	name := filepath.Base(msg.path)
	if msg.err != nil {
		m.uploadFailed++
		m.feedback = append(m.feedback, styleError().Render("✗ "+name+": "+msg.err.Error()))
	} else {
		m.feedback = append(m.feedback, "✓ "+name+uploadSummary(m.conv, msg.body))
	}

	if m.uploadTally.Mark() {
		m.uploadPaths.SetValue("")
		if m.uploadFailed > 0 {
			m.showError(fmt.Sprintf("uploaded %d of %d file(s)", m.uploadCount-m.uploadFailed, m.uploadCount))
		} else {
			m.showMinibuffer(fmt.Sprintf("uploaded %d file(s)", m.uploadCount))
		}
	}
	return m
}

// uploadSummary is the first line of the server's upload response.
func uploadSummary(conv *fragment.Converter, body []byte) string {
	frag, err := fragment.Parse(body)
	if err != nil {
		return ""
	}
	md, err := conv.Markdown(frag)
	if err != nil || md == "" {
		return ""
	}
	first, _, _ := strings.Cut(md, "\n")
	return ": " + first
}

func (m appModel) copyImageURL() (appModel, tea.Cmd) {
	id := strings.TrimSpace(m.imageID.Value())
	if id == "" || m.images == nil {
		return m, nil
	}
	url := m.images.ImageURL(id)
	ctx := m.ctx
	return m, func() tea.Msg {
		return copiedMsg{text: url, err: paste.Write(ctx, url)}
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
