package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"edat-cli/internal/format"
	"edat-cli/internal/remote"
	"edat-cli/internal/store"
	"edat-cli/internal/terminal"
	"edat-cli/internal/tui"

	"github.com/spf13/cobra"
)

// EnvDebugLog names a file that receives JSON debug logs when --log is not
// given.
const EnvDebugLog = "EDAT_DEBUG_LOG"

type App struct {
	Server     string
	User       string
	Timeout    time.Duration
	Format     string
	PrettyJSON bool
	LogPath    string

	// formatSet is true when a format came from a flag, env or the config
	// file rather than the default.
	formatSet bool
	out       format.Format

	cfg      *store.Config
	log      *slog.Logger
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "edat",
		Short:        "edat admin terminal (TUI + scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive terminal
  edat --server https://edat.example --user owner-1

  # Run one terminal line and print the response
  edat exec get volume vol-a

  # Verbs work directly (shortcut for: edat exec ...)
  edat status 12 complete

  # Edit a section without the TUI
  edat exec get section 12 --field section-summary="New summary" --submit

  # Upload every scan in a folder
  edat images upload "~/scans/**/*.jpg"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive terminal.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			return app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", "", "Site base URL (default: config server, $"+store.EnvServer+")")
	cmd.PersistentFlags().StringVar(&app.User, "user", "", "User id sent as the "+remote.UserCookie+" cookie (default: config user, $"+store.EnvUser+")")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout (default: config timeout or 30s)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", "", "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", "", "Write JSON debug logs to this file (default: $"+EnvDebugLog+")")

	cmd.AddCommand(newExecCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newImagesCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// load resolves settings: flag > env > config file > default.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	app.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("server") {
		app.Server = cfg.Server
	}
	if !flags.Changed("user") {
		app.User = cfg.User
	}
	if !flags.Changed("timeout") {
		app.Timeout = cfg.EffectiveTimeout()
	}
	if !flags.Changed("format") {
		app.Format = cfg.Format
	}
	app.formatSet = app.Format != ""
	out, err := format.Parse(app.Format)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.out, app.Format = out, string(out)
	if !flags.Changed("log") {
		app.LogPath = os.Getenv(EnvDebugLog)
	}

	log, closeLog, err := openLogger(app.LogPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log, app.closeLog = log, closeLog
	return nil
}

func (app *App) logger() *slog.Logger {
	if app.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return app.log
}

func (app *App) client() (*remote.Client, error) {
	return remote.New(remote.Config{
		Server:  app.Server,
		User:    app.User,
		Timeout: app.Timeout,
		Logger:  app.logger(),
	})
}

func (app *App) session(c *remote.Client) *terminal.Session {
	return terminal.NewSession(c, terminal.WithLogger(app.logger()))
}

// openHistory returns nil when history is disabled in the config.
func (app *App) openHistory(ctx context.Context) (*store.History, error) {
	if app.cfg != nil && app.cfg.History.Disabled {
		return nil, nil
	}
	path, err := store.HistoryPath()
	if err != nil {
		return nil, err
	}
	limit := store.DefaultHistoryLimit
	if app.cfg != nil {
		limit = app.cfg.EffectiveHistoryLimit()
	}
	return store.OpenHistory(ctx, path, limit)
}

func runTUI(cmd *cobra.Command, app *App) error {
	c, err := app.client()
	if err != nil {
		if errors.Is(err, remote.ErrNoServer) {
			return writeErr(cmd, fmt.Errorf("%w; pass --server or run `edat config set server <url>`", err))
		}
		return writeErr(cmd, err)
	}
	h, err := app.openHistory(cmd.Context())
	if err != nil {
		app.logger().Warn("history unavailable", "err", err)
	}

	opts := tui.Options{
		Session: app.session(c),
		Images:  c,
		Server:  c.Server(),
		User:    app.User,
		Logger:  app.logger(),
	}
	if app.cfg != nil {
		opts.Theme = app.cfg.Theme
	}
	if h != nil {
		defer h.Close()
		opts.History = h
	}
	return tui.Run(cmd.Context(), opts)
}

// writeOut prints data inside the {"data": ...} envelope.
func writeOut(cmd *cobra.Command, app *App, data any) error {
	return format.Write(cmd.OutOrStdout(), data, app.out, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
