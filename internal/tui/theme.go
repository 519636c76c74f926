package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The terminal must stay readable on light and dark backgrounds, so every
// colour is an AdaptiveColor and faint styling is only used on dark ones.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorInputBg   = ac("254", "234")
	colorAccent    = ac("27", "62")
	colorAccentFg  = ac("255", "235")
	colorError     = ac("160", "203")
	colorSuccess   = ac("28", "78")
	colorPending   = ac("130", "214")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError).Bold(true)
}

func styleLabel(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorSurfaceFg)
}

// Theme env overrides, checked before the configured theme.
const (
	envTheme  = "EDAT_TUI_THEME"
	envDarkBG = "EDAT_TUI_DARKBG"
)

// themeName is the effective theme once applyThemePreference has run:
// "light", "dark", "notty" or "" (auto).
var themeName string

// applyColorProfilePreference sets the Lip Gloss colour profile. Only
// NO_COLOR is honoured here; CLICOLOR handling in termenv is meant for plain
// CLI output and would switch the TUI to ASCII when piped.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" || themeName == "notty" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Terminal.app under-reports; trust TERM/COLORTERM when they claim more.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") {
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) EDAT_TUI_THEME=light|dark|notty|auto
// 2) the configured theme
// 3) EDAT_TUI_DARKBG=true|false
// 4) COLORFGBG ("fg;bg")
// 5) macOS appearance
func applyThemePreference(configured string) {
	themeName = ""
	pick := strings.ToLower(strings.TrimSpace(os.Getenv(envTheme)))
	if pick == "" || pick == "auto" {
		pick = strings.ToLower(strings.TrimSpace(configured))
	}
	switch pick {
	case "light":
		themeName = "light"
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		themeName = "dark"
		lipgloss.SetHasDarkBackground(true)
		return
	case "notty":
		themeName = "notty"
		return
	}

	if v := strings.TrimSpace(os.Getenv(envDarkBG)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			lipgloss.SetHasDarkBackground(b)
			return
		}
	}

	if dark, ok := colorFGBGIsDark(os.Getenv("COLORFGBG")); ok {
		lipgloss.SetHasDarkBackground(dark)
		return
	}

	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
		}
	}
}

// colorFGBGIsDark reads the background from COLORFGBG's last segment. Palette
// entries 0-6 are dark.
func colorFGBGIsDark(v string) (dark, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, false
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || bg < 0 {
		return false, false
	}
	return bg < 7, true
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// Prints "Dark" in dark mode; exits 1 in light mode (key missing).
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
