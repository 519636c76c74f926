package remote

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ImageExts are the extensions ExpandPaths keeps when a pattern names a
// directory.
var ImageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// ExpandPaths resolves upload arguments to regular files: "~/" is expanded,
// globs (including **) are matched, and a directory contributes its image
// files. The result is de-duplicated and keeps argument order.
func ExpandPaths(patterns []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		pattern = expandHome(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if st, err := os.Stat(pattern); err == nil && st.IsDir() {
			matches, err := doublestar.FilepathGlob(filepath.Join(pattern, "*"), doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pattern, err)
			}
			for _, m := range matches {
				if IsImage(m) {
					add(m)
				}
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: no matching files", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// IsImage reports whether path has one of ImageExts.
func IsImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExts {
		if ext == e {
			return true
		}
	}
	return false
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
