package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"edat-cli/internal/fragment"
	"edat-cli/internal/model"
	"edat-cli/internal/store"
	"edat-cli/internal/terminal"
	"edat-cli/internal/tui"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type execOptions struct {
	fields []string
	submit bool
	raw    bool
}

type fieldView struct {
	ID        string `json:"id" yaml:"id"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Kind      string `json:"kind" yaml:"kind"`
	Value     string `json:"value" yaml:"value"`
	MaxLength int    `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

type execResult struct {
	Line      string      `json:"line" yaml:"line"`
	Command   string      `json:"command,omitempty" yaml:"command,omitempty"`
	Sent      bool        `json:"sent" yaml:"sent"`
	Submitted string      `json:"submitted,omitempty" yaml:"submitted,omitempty"`
	Submit    bool        `json:"submit" yaml:"submit"`
	Fields    []fieldView `json:"fields,omitempty" yaml:"fields,omitempty"`
	Errors    []string    `json:"errors,omitempty" yaml:"errors,omitempty"`
	Markdown  string      `json:"markdown,omitempty" yaml:"markdown,omitempty"`

	raw []byte
}

func newExecCmd(app *App) *cobra.Command {
	var opts execOptions

	cmd := &cobra.Command{
		Use:   "exec <line...>",
		Short: "Run one terminal line (optionally submitting the form it returns)",
		Long: strings.TrimSpace(`
Runs one terminal line against the site and prints the response.

With --submit the form in the response is submitted right away, the way the
interactive terminal does on ctrl+s. Field values start from the response and
are overridden with --field id=value.
`),
		Example: strings.TrimSpace(`
  edat exec volumes
  edat exec new volume 2 --field volume-title="Third Volume" --submit
  edat exec status 12 complete --format yaml
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, app, strings.Join(args, " "), opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Form field to set before submitting (id=value, repeatable)")
	cmd.Flags().BoolVar(&opts.submit, "submit", false, "Submit the returned form")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print the raw HTML fragment")
	return cmd
}

func runExec(cmd *cobra.Command, app *App, line string, opts execOptions) error {
	ctx := cmd.Context()
	overrides, err := parseFieldFlags(opts.fields)
	if err != nil {
		return writeErr(cmd, err)
	}
	if len(overrides) > 0 && !opts.submit {
		return writeErr(cmd, usageError{msg: "--field only applies with --submit"})
	}

	c, err := app.client()
	if err != nil {
		return writeErr(cmd, err)
	}
	sess := app.session(c)

	hist, err := app.openHistory(ctx)
	if err != nil {
		app.logger().Warn("history unavailable", "err", err)
	}
	if hist != nil {
		defer hist.Close()
	}
	record := func(e store.Entry) {
		if hist == nil {
			return
		}
		if _, err := hist.Append(ctx, e); err != nil {
			app.logger().Warn("history append failed", "err", err)
		}
	}

	plan, err := sess.Parse(line)
	if err != nil {
		record(store.Entry{Line: line, Outcome: store.OutcomeInvalid})
		app.logger().Debug("invalid command", "line", line, "err", err)
		color.New(color.FgRed, color.Bold).Fprintln(cmd.ErrOrStderr(), "invalid command")
		return err
	}

	res := execResult{Line: strings.TrimSpace(line)}
	entry := store.Entry{Line: line, Outcome: store.OutcomeNothing}
	if plan.Command != nil {
		res.Command = plan.Command.CommandName()
		res.Sent = true
		entry.Command = res.Command
		if b, err := model.Encode(plan.Command); err == nil {
			entry.Payload = string(b)
		}
		entry.Outcome = store.OutcomeSent
	}

	body, err := sess.Run(ctx, plan)
	if err != nil {
		entry.Outcome, entry.Error = store.OutcomeFailed, err.Error()
	}
	record(entry)
	if err != nil {
		return writeErr(cmd, err)
	}

	if body != nil && opts.submit {
		body, err = submitForm(ctx, sess, body, overrides)
		if err != nil {
			return writeErr(cmd, err)
		}
		if last := sess.Last(); last != nil {
			res.Submitted = last.CommandName()
		}
	} else if opts.submit {
		return writeErr(cmd, errNothingToSubmit)
	}

	if err := res.fill(body); err != nil {
		return writeErr(cmd, err)
	}
	return printExec(cmd, app, res, opts.raw)
}

// submitForm submits the form in body: the response's own field values,
// overridden by overrides.
func submitForm(ctx context.Context, sess *terminal.Session, body []byte, overrides map[string]string) ([]byte, error) {
	frag, err := fragment.Parse(body)
	if err != nil {
		return nil, err
	}
	if !frag.Submit {
		return nil, errNothingToSubmit
	}
	form := terminal.Fields{}
	for _, f := range frag.Fields {
		form[f.ID] = f.Value
	}
	for id, v := range overrides {
		if _, ok := frag.Field(id); !ok {
			return nil, errNotFound("field", id)
		}
		form[id] = v
	}

	out, err := sess.Submit(ctx, form)
	if errors.Is(err, terminal.ErrIncomplete) {
		return nil, fmt.Errorf("%w (set them with --field id=value)", err)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errNothingToSubmit
	}
	return out, nil
}

func parseFieldFlags(kvs []string) (map[string]string, error) {
	out := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		id, v, ok := strings.Cut(kv, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, usageError{msg: fmt.Sprintf("--field: want id=value, got %q", kv)}
		}
		out[id] = v
	}
	return out, nil
}

func (r *execResult) fill(body []byte) error {
	r.raw = body
	if body == nil {
		return nil
	}
	frag, err := fragment.Parse(body)
	if err != nil {
		return err
	}
	frag.ProcessUTCs(time.Local)

	r.Submit = frag.Submit
	r.Errors = frag.Errors
	for _, f := range frag.Fields {
		r.Fields = append(r.Fields, fieldView{ID: f.ID, Label: f.Label, Kind: f.Kind.String(), Value: f.Value, MaxLength: f.MaxLength})
	}
	md, err := fragment.NewConverter().Markdown(frag)
	if err != nil {
		return err
	}
	r.Markdown = md
	return nil
}

func printExec(cmd *cobra.Command, app *App, res execResult, raw bool) error {
	out := cmd.OutOrStdout()
	if raw {
		_, err := out.Write(res.raw)
		return err
	}
	if app.formatSet || !isTerminal(out) {
		return writeOut(cmd, app, res)
	}

	if !res.Sent && res.raw == nil {
		fmt.Fprintln(out, "nothing to send")
		return nil
	}
	red := color.New(color.FgRed, color.Bold)
	for _, e := range res.Errors {
		red.Fprintln(out, "! "+e)
	}
	theme := ""
	if app.cfg != nil {
		theme = app.cfg.Theme
	}
	if md := tui.RenderMarkdown(res.Markdown, terminalWidth(), theme); md != "" {
		fmt.Fprintln(out, md)
	}
	faint := color.New(color.Faint)
	for _, f := range res.Fields {
		faint.Fprintf(out, "  %s = %q\n", f.ID, f.Value)
	}
	if res.Submitted != "" {
		color.New(color.FgGreen).Fprintln(out, "submitted "+res.Submitted)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 20 {
		return n
	}
	return 100
}
