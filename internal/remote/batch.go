package remote

import (
	"context"
	"sync"
)

// Tally is a join barrier over a fixed number of tasks that may finish in any
// order. Done runs exactly once, on the call to Mark that completes the set.
// A Tally over zero tasks never fires.
type Tally struct {
	mu    sync.Mutex
	left  int
	fired bool
	done  func()
}

func NewTally(n int, done func()) *Tally {
	return &Tally{left: n, done: done}
}

// Mark records one finished task and reports whether it was the last.
func (t *Tally) Mark() bool {
	t.mu.Lock()
	if t.fired || t.left <= 0 {
		t.mu.Unlock()
		return false
	}
	t.left--
	last := t.left == 0
	if last {
		t.fired = true
	}
	t.mu.Unlock()

	if last && t.done != nil {
		t.done()
	}
	return last
}

// Remaining is the number of tasks not yet marked.
func (t *Tally) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.left
}

type UploadResult struct {
	Path     string
	Response []byte
	Err      error
}

// UploadBatch uploads every path concurrently. onResult (optional) sees each
// result as it arrives; it is called from the upload goroutines, one at a
// time. The returned slice is in arrival order.
func (c *Client) UploadBatch(ctx context.Context, paths []string, onResult func(UploadResult)) []UploadResult {
	if len(paths) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		results = make([]UploadResult, 0, len(paths))
		all     = make(chan struct{})
	)
	tally := NewTally(len(paths), func() { close(all) })

	for _, p := range paths {
		go func(path string) {
			body, err := c.UploadFile(ctx, path)
			r := UploadResult{Path: path, Response: body, Err: err}

			mu.Lock()
			results = append(results, r)
			if onResult != nil {
				onResult(r)
			}
			mu.Unlock()

			tally.Mark()
		}(p)
	}

	<-all
	return results
}
