package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"edat-cli/internal/remote"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newImagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Site images: look up, upload, watch a folder",
	}
	cmd.AddCommand(newImagesURLCmd(app))
	cmd.AddCommand(newImagesGetCmd(app))
	cmd.AddCommand(newImagesUploadCmd(app))
	cmd.AddCommand(newImagesWatchCmd(app))
	return cmd
}

type uploadView struct {
	Path     string `json:"path" yaml:"path"`
	OK       bool   `json:"ok" yaml:"ok"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Response string `json:"response,omitempty" yaml:"response,omitempty"`
}

func toUploadView(r remote.UploadResult) uploadView {
	v := uploadView{Path: r.Path, OK: r.Err == nil, Response: string(r.Response)}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return v
}

// progress prints one line per finished upload to w.
func progress(w io.Writer) func(remote.UploadResult) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	return func(r remote.UploadResult) {
		if r.Err != nil {
			bad.Fprintf(w, "✗ %s: %v\n", filepath.Base(r.Path), r.Err)
			return
		}
		ok.Fprintf(w, "✓ %s\n", filepath.Base(r.Path))
	}
}

func newImagesURLCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "url <id>",
		Short: "Print the URL of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]string{"id": args[0], "url": c.ImageURL(args[0])})
		},
	}
}

func newImagesGetCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			data, contentType, err := c.FetchImage(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "" {
				out = args[0] + ".jpg"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"id":          args[0],
				"path":        out,
				"contentType": contentType,
				"bytes":       len(data),
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "File to write (default: <id>.jpg)")
	return cmd
}

func newImagesUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file|dir|glob>...",
		Short: "Upload image files concurrently",
		Example: `  edat images upload cover.jpg
  edat images upload "~/scans/**/*.jpg"
  edat images upload ./vol-2/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := remote.ExpandPaths(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(paths) == 0 {
				return writeErr(cmd, errors.New("no files to upload"))
			}
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}

			results := c.UploadBatch(cmd.Context(), paths, progress(cmd.ErrOrStderr()))
			views := make([]uploadView, 0, len(results))
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
				views = append(views, toUploadView(r))
			}
			if err := writeOut(cmd, app, views); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
			}
			return nil
		},
	}
}

func newImagesWatchCmd(app *App) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload image files as they appear in a directory (until interrupted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.client()
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := os.Stat(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !st.IsDir() {
				return writeErr(cmd, fmt.Errorf("not a directory: %s", args[0]))
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (ctrl+c to stop)\n", args[0])
			var mu sync.Mutex
			report := progress(cmd.ErrOrStderr())
			err = watchUploads(cmd.Context(), args[0], settle, c.UploadFile, func(r remote.UploadResult) {
				mu.Lock()
				defer mu.Unlock()
				report(r)
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&settle, "settle", 500*time.Millisecond, "Quiet period after the last write before a file is uploaded")
	return cmd
}

type uploadFunc func(ctx context.Context, path string) ([]byte, error)

// watchUploads uploads every image file created or rewritten in dir once it
// has been quiet for settle. It returns when ctx is done, after in-flight
// uploads finish.
func watchUploads(ctx context.Context, dir string, settle time.Duration, upload uploadFunc, report func(remote.UploadResult)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	var (
		wg     sync.WaitGroup
		timers = map[string]*time.Timer{}
		ready  = make(chan string)
	)
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !remote.IsImage(ev.Name) {
				continue
			}
			if t := timers[ev.Name]; t != nil {
				t.Reset(settle)
				continue
			}
			name := ev.Name
			timers[name] = time.AfterFunc(settle, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(timers, name)
			wg.Add(1)
			go func() {
				defer wg.Done()
				body, err := upload(ctx, name)
				report(remote.UploadResult{Path: name, Response: body, Err: err})
			}()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
