package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"edat-cli/internal/cli"
	"edat-cli/internal/terminal"
)

// subcommands win over terminal verbs of the same name (`edat images`).
var subcommands = map[string]bool{
	"exec":       true,
	"history":    true,
	"images":     true,
	"config":     true,
	"help":       true,
	"completion": true,
}

func isDirectLine(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return !subcommands[s] && terminal.IsVerb(s)
}

func rewriteDirectLineArgs(argv []string) []string {
	// Convenience: `edat status 12 complete` works like `edat exec status 12 complete`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`edat --server ... get volume x`), so we look for the
	// first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--server":  true,
		"--user":    true,
		"--timeout": true,
		"--format":  true,
		"--log":     true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertExec := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "exec")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// `edat -- move section 3 before -1`: exec goes before "--" so the
			// rest stays positional.
			if i+1 < len(argv) && isDirectLine(argv[i+1]) {
				return insertExec(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
				continue
			}
			continue
		}

		if isDirectLine(a) {
			return insertExec(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectLineArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
