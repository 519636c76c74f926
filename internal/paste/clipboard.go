package paste

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoClipboard is returned when no clipboard tool is installed.
var ErrNoClipboard = errors.New("no clipboard tool found")

type tool struct {
	name string
	args []string
}

// Read fetches the system clipboard. The HTML flavour is best effort: only
// the plain text is required for a successful read.
func Read(ctx context.Context) (Clipboard, error) {
	htmlReaders, textReaders := readers(runtime.GOOS)

	var c Clipboard
	for _, r := range htmlReaders {
		if out, err := r.run(ctx); err == nil && strings.TrimSpace(out) != "" {
			c.HTML = htmlFragment(out)
			break
		}
	}

	var lastErr error = ErrNoClipboard
	for _, r := range textReaders {
		out, err := r.run(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		c.Text = strings.ReplaceAll(out, "\r\n", "\n")
		return c, nil
	}
	if c.HTML != "" {
		return c, nil
	}
	return Clipboard{}, lastErr
}

func readers(goos string) (htmlReaders, textReaders []tool) {
	switch goos {
	case "darwin":
		return nil, []tool{{name: "pbpaste"}}
	case "windows":
		ps := func(script string) tool {
			return tool{name: "powershell", args: []string{"-NoProfile", "-Command", script}}
		}
		return []tool{ps("Get-Clipboard -TextFormatType Html")},
			[]tool{ps("Get-Clipboard -Raw")}
	default:
		// Wayland first, then X11.
		return []tool{
				{name: "wl-paste", args: []string{"--no-newline", "--type", "text/html"}},
				{name: "xclip", args: []string{"-selection", "clipboard", "-t", "text/html", "-o"}},
			}, []tool{
				{name: "wl-paste", args: []string{"--no-newline"}},
				{name: "xclip", args: []string{"-selection", "clipboard", "-o"}},
				{name: "xsel", args: []string{"--clipboard", "--output"}},
			}
	}
}

func (r tool) run(ctx context.Context) (string, error) {
	if _, err := exec.LookPath(r.name); err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, r.name, r.args...).Output()
	if err != nil {
		return "", errors.New(r.name + ": " + err.Error())
	}
	return string(out), nil
}

// htmlFragment strips the CF_HTML header Windows puts in front of the markup.
func htmlFragment(s string) string {
	const start, end = "<!--StartFragment-->", "<!--EndFragment-->"
	if i := strings.Index(s, start); i >= 0 {
		s = s[i+len(start):]
		if j := strings.Index(s, end); j >= 0 {
			s = s[:j]
		}
		return s
	}
	if i := strings.Index(s, "<"); i > 0 {
		return s[i:]
	}
	return s
}

// Write puts s on the system clipboard as plain text.
func Write(ctx context.Context, s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var lastErr error = ErrNoClipboard
	for _, w := range writers(runtime.GOOS) {
		if _, err := exec.LookPath(w.name); err != nil {
			continue
		}
		cmd := exec.CommandContext(ctx, w.name, w.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			lastErr = errors.New(w.name + ": " + err.Error())
			continue
		}
		return nil
	}
	return lastErr
}

func writers(goos string) []tool {
	switch goos {
	case "darwin":
		return []tool{{name: "pbcopy"}}
	case "windows":
		return []tool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []tool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}
