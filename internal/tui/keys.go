package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit     key.Binding
	Run      key.Binding
	Submit   key.Binding
	Paste    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Command  key.Binding
	Recall   key.Binding
	Forward  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	CopyURL  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Run:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Command:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "command line")),
		Recall:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
		Forward:  key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		CopyURL:  key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy image url")),
	}
}

// helpLine renders the bindings that apply right now.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
