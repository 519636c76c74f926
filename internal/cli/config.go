package cli

import (
	"fmt"
	"strings"

	"edat-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Local settings (~/.edat/config.yaml)",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigPathCmd(app))
	return cmd
}

type configView struct {
	Server       string `json:"server" yaml:"server"`
	User         string `json:"user" yaml:"user"`
	Timeout      string `json:"timeout" yaml:"timeout"`
	Theme        string `json:"theme" yaml:"theme"`
	Format       string `json:"format" yaml:"format"`
	History      bool   `json:"history" yaml:"history"`
	HistoryLimit int    `json:"historyLimit" yaml:"historyLimit"`
	Path         string `json:"path" yaml:"path"`
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings (flags and env applied)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg := app.cfg
			if cfg == nil {
				cfg = &store.Config{}
			}
			theme := cfg.Theme
			if theme == "" {
				theme = "auto"
			}
			return writeOut(cmd, app, configView{
				Server:       app.Server,
				User:         app.User,
				Timeout:      app.Timeout.String(),
				Theme:        theme,
				Format:       app.Format,
				History:      !cfg.History.Disabled,
				HistoryLimit: cfg.EffectiveHistoryLimit(),
				Path:         path,
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set one key in the config file (omit value to reset)",
		Long:  "Keys: " + strings.Join(store.ConfigKeys(), ", "),
		Example: strings.TrimSpace(`
  edat config set server https://edat.example
  edat config set user owner-1
  edat config set history.limit 500
  edat config set theme
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from the file, not app.cfg: env overrides must not be persisted.
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := cfg.Set(args[0], value); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Debug("config set", "key", args[0])
			return writeOut(cmd, app, map[string]string{
				"key":   strings.ToLower(strings.TrimSpace(args[0])),
				"value": value,
			})
		},
	}
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
