package cli

import (
	"errors"

	"edat-cli/internal/store"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Executed terminal lines (local)",
	}
	cmd.AddCommand(newHistoryListCmd(app))
	cmd.AddCommand(newHistoryShowCmd(app))
	cmd.AddCommand(newHistoryReplayCmd(app))
	return cmd
}

func openHistoryOrErr(cmd *cobra.Command, app *App) (*store.History, error) {
	h, err := app.openHistory(cmd.Context())
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("history is disabled (edat config set history.disabled false)")
	}
	return h, nil
}

func newHistoryListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent lines, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistoryOrErr(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer h.Close()

			entries, err := h.Recent(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entries)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries (0 = all)")
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry (id or unique id prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistoryOrErr(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer h.Close()

			e, err := h.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrHistoryNotFound) {
				return writeErr(cmd, errNotFound("history entry", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, e)
		},
	}
}

func newHistoryReplayCmd(app *App) *cobra.Command {
	var opts execOptions

	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Run a recorded line again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openHistoryOrErr(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			e, err := h.Get(cmd.Context(), args[0])
			// Close before runExec opens its own handle to append.
			_ = h.Close()
			if errors.Is(err, store.ErrHistoryNotFound) {
				return writeErr(cmd, errNotFound("history entry", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return runExec(cmd, app, e.Line, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Form field to set before submitting (id=value, repeatable)")
	cmd.Flags().BoolVar(&opts.submit, "submit", false, "Submit the returned form")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the raw HTML fragment")
	return cmd
}
