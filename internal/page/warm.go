package page

import (
	"context"
	"fmt"

	"github.com/dgallion1/docgloss/internal/guide"
)

// WarmResult summarizes a Warm run.
type WarmResult struct {
	Rendered int
	Errors   []error
}

// Warm renders every guide into the cache with at most workers renders in
// flight. Failures are collected rather than aborting the run.
func (r *Renderer) Warm(ctx context.Context, guides []*guide.Guide, workers int) WarmResult {
	if workers < 1 {
		workers = 1
	}

	type renderResult struct {
		id  string
		err error
	}
	results := make(chan renderResult, len(guides))
	sem := make(chan struct{}, workers)

	started := 0
	for _, g := range guides {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		started++
		go func(g *guide.Guide) {
			defer func() { <-sem }()
			_, err := r.Render(g)
			results <- renderResult{id: g.ID, err: err}
		}(g)
	}

	var res WarmResult
	for range started {
		rr := <-results
		if rr.err != nil {
			r.log.Error("warming page failed", "page_id", rr.id, "error", rr.err)
			res.Errors = append(res.Errors, fmt.Errorf("page %s: %w", rr.id, rr.err))
			continue
		}
		res.Rendered++
	}
	if err := ctx.Err(); err != nil {
		res.Errors = append(res.Errors, err)
	}
	r.log.Info("page cache warmed", "rendered", res.Rendered, "errors", len(res.Errors), "guides", len(guides))
	return res
}
