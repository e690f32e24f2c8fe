package analysis

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/lineclass/pkg/styled"
)

// cancelCheckEvery bounds how many lines a worker classifies between context checks.
const cancelCheckEvery = 256

// ClassifyAll classifies a captured batch of lines on up to workers goroutines.
// Results are in input order. workers <= 0 uses GOMAXPROCS.
func ClassifyAll(ctx context.Context, a Analyzer, lines []styled.Line, workers int) ([]Analysis, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Analysis, len(lines))
	if len(lines) == 0 {
		return out, nil
	}

	chunk := (len(lines) + workers - 1) / workers
	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(lines); start += chunk {
		end := min(start+chunk, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				out[i] = a.Analyze(lines[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
