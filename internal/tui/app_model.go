package tui

import (
	"context"
	"log/slog"
	"time"

	"edat-cli/internal/fragment"
	"edat-cli/internal/remote"
	"edat-cli/internal/store"
	"edat-cli/internal/terminal"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// ImageService is the part of remote.Client the image console uses.
type ImageService interface {
	ImageURL(id string) string
	FetchImage(ctx context.Context, id string) ([]byte, string, error)
	UploadFile(ctx context.Context, path string) ([]byte, error)
}

// HistoryStore is the part of store.History the command line uses.
type HistoryStore interface {
	Append(ctx context.Context, e store.Entry) (store.Entry, error)
	Lines(ctx context.Context, n int) ([]string, error)
}

type focusArea int

const (
	focusCommand focusArea = iota
	focusField
	focusImageID
	focusUpload
)

type appModel struct {
	ctx     context.Context
	session *terminal.Session
	images  ImageService
	history HistoryStore
	conv    *fragment.Converter
	log     *slog.Logger
	server  string
	user    string
	loc     *time.Location

	width  int
	height int

	keys keyMap

	focus    focusArea
	fieldIdx int

	command textinput.Model
	// invalid is set by a line that failed to parse and cleared by the next
	// edit of the command line.
	invalid bool
	// pending blocks new lines and submits until the in-flight dispatch
	// answers, so a submit always sees the continuation its response bound.
	pending     bool
	pendingWhat string

	response viewport.Model
	frag     *fragment.Fragment
	fields   []formField

	imageID      textinput.Model
	uploadPaths  textinput.Model
	imageInfo    string
	feedback     []string
	uploadBatch  int
	uploadTally  *remote.Tally
	uploadCount  int
	uploadFailed int

	recall    []string
	recallIdx int
	draft     string

	minibufferText string
	minibufferErr  bool
}

type Options struct {
	Session *terminal.Session
	Images  ImageService
	History HistoryStore
	Server  string
	User    string
	Theme   string
	Logger  *slog.Logger
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	m := appModel{
		ctx:     ctx,
		session: opts.Session,
		images:  opts.Images,
		history: opts.History,
		conv:    fragment.NewConverter(),
		log:     log,
		server:  opts.Server,
		user:    opts.User,
		loc:     time.Local,
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
	}
	m.keys.Submit.SetEnabled(false)
	m.keys.CopyURL.SetEnabled(false)

	m.command = textinput.New()
	m.command.Prompt = "> "
	m.command.Placeholder = "get volume <id>, new section <volume> <part>, images…"
	m.command.CharLimit = 1024
	m.command.KeyMap.Paste.SetEnabled(false)
	m.command.Focus()

	m.imageID = textinput.New()
	m.imageID.Prompt = ""
	m.imageID.Placeholder = "image id"
	m.imageID.CharLimit = 200
	m.imageID.KeyMap.Paste.SetEnabled(false)

	m.uploadPaths = textinput.New()
	m.uploadPaths.Prompt = ""
	m.uploadPaths.Placeholder = "files or globs to upload, e.g. ~/scans/*.jpg"
	m.uploadPaths.CharLimit = 4096
	m.uploadPaths.KeyMap.Paste.SetEnabled(false)

	m.response = viewport.New(m.width, m.responseHeight())

	if m.history != nil {
		lines, err := m.history.Lines(ctx, 200)
		if err != nil {
			m.log.Warn("history load failed", "err", err)
		}
		m.recall = lines
	}
	m.recallIdx = len(m.recall)

	m.resize()
	return m
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferErr = false
}

func (m *appModel) showError(text string) {
	m.minibufferText = text
	m.minibufferErr = true
}

func (m *appModel) clearMinibuffer() {
	m.minibufferText = ""
	m.minibufferErr = false
}
