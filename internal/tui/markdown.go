package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal
	// queries, so styles are always picked explicitly.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// RenderMarkdown renders md for a terminal of the given width. style is
// "dark", "light" or "notty"; anything else follows the detected background.
// On renderer failure the markdown is returned as is.
func RenderMarkdown(md string, width int, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	switch style {
	case "dark", "light", "notty":
	default:
		style = markdownStyle()
	}

	key := style + ":" + strconv.Itoa(width)
	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(markdownStyleConfig(style)),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func renderMarkdown(md string, width int) string {
	return RenderMarkdown(md, width, themeName)
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	switch styleName {
	case "notty":
		return styles.NoTTYStyleConfig
	case "light":
		cfg := styles.LightStyleConfig
		applyMarkdownPalette(&cfg, "light")
		return cfg
	default:
		cfg := styles.DarkStyleConfig
		applyMarkdownPalette(&cfg, "dark")
		return cfg
	}
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("EDAT_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if themeName != "" {
		return themeName
	}
	if v := strings.TrimSpace(os.Getenv(envDarkBG)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "dark"
			}
			return "light"
		}
	}
	if dark, ok := colorFGBGIsDark(os.Getenv("COLORFGBG")); ok {
		if dark {
			return "dark"
		}
		return "light"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// applyMarkdownPalette aligns glamour's colours with the terminal's own:
// headings and code in the surface colour, links in the accent.
func applyMarkdownPalette(cfg *ansi.StyleConfig, styleName string) {
	headingColor := mdColor(colorSurfaceFg, styleName)
	cfg.Heading.Color = headingColor
	cfg.H1.Color = headingColor
	cfg.H2.Color = headingColor
	cfg.H3.Color = headingColor

	linkColor := mdColor(colorAccent, styleName)
	cfg.Link.Color = linkColor
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = linkColor
	cfg.LinkText.Underline = mdBoolPtr(true)

	cfg.Code.Color = mdColor(colorSurfaceFg, styleName)
	cfg.CodeBlock.Color = mdColor(colorSurfaceFg, styleName)
	if cfg.CodeBlock.BackgroundColor == nil {
		cfg.CodeBlock.BackgroundColor = mdColor(colorControlBg, styleName)
	}

	cfg.Text.Color = mdColor(colorSurfaceFg, styleName)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	if styleName == "light" {
		return mdStrPtr(c.Light)
	}
	return mdStrPtr(c.Dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
