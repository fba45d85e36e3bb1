package content

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PreloadResult is the outcome of one document in Preload.
type PreloadResult struct {
	Doc Doc
	Err error
}

// ProgressFunc receives the completed percentage and the label of the
// document that just finished.
type ProgressFunc func(percent int, name string)

// Preload fetches every document concurrently so later commands hit the
// cache. Failures are reported in the results, never returned as an error.
func (c *Client) Preload(ctx context.Context, onProgress ProgressFunc) []PreloadResult {
	results := make([]PreloadResult, len(AllDocs))
	var (
		mu     sync.Mutex
		loaded int
	)
	var g errgroup.Group
	for i, d := range AllDocs {
		g.Go(func() error {
			_, err := c.Raw(ctx, d)
			results[i] = PreloadResult{Doc: d, Err: err}
			if err != nil {
				slog.Warn("content: preload", "doc", d, "err", err)
			}
			mu.Lock()
			loaded++
			pct := loaded * 100 / len(AllDocs)
			if onProgress != nil {
				onProgress(pct, d.Label())
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
