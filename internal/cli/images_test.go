package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"edat-cli/internal/remote"
)

func TestWatchUploads_SettlesThenUploadsImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		uploaded []string
		got      = make(chan remote.UploadResult, 4)
	)
	upload := func(_ context.Context, path string) ([]byte, error) {
		mu.Lock()
		uploaded = append(uploaded, filepath.Base(path))
		mu.Unlock()
		return []byte("<p>ok</p>"), nil
	}

	done := make(chan error, 1)
	go func() {
		done <- watchUploads(ctx, dir, 50*time.Millisecond, upload, func(r remote.UploadResult) { got <- r })
	}()
	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scan.jpg")
	for i := 0; i < 3; i++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = f.Write([]byte("chunk"))
		_ = f.Close()
	}

	select {
	case r := <-got:
		if r.Err != nil || filepath.Base(r.Path) != "scan.jpg" {
			t.Fatalf("result: got %+v, want scan.jpg ok", r)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no upload reported")
	}

	// Wait out another settle period so a stray duplicate would show up.
	time.Sleep(200 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watchUploads: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(uploaded) != 1 || uploaded[0] != "scan.jpg" {
		t.Fatalf("uploaded: got %v, want [scan.jpg]", uploaded)
	}
}

func TestWatchUploads_MissingDir(t *testing.T) {
	t.Parallel()

	err := watchUploads(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Millisecond,
		func(context.Context, string) ([]byte, error) { return nil, nil },
		func(remote.UploadResult) {})
	if err == nil {
		t.Fatalf("expected error watching a missing directory")
	}
}
