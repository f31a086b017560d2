package commands

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/leapmigrate/internal/request"
	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"golang.org/x/sync/errgroup"
)

// plan is a request file and the actions built from it.
type plan struct {
	Path    string
	Request *request.Request
	Actions []core.Action
}

// buildPlans reads and builds every file concurrently. Plans are returned
// in input order; the first failure cancels the rest.
func buildPlans(ctx context.Context, b mutation.Builder, logger *slog.Logger, paths []string) ([]plan, error) {
	plans := make([]plan, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req, err := request.ReadFile(path)
			if err != nil {
				return err
			}
			actions, err := req.Build(b)
			if err != nil {
				return err
			}
			logger.Debug("built request file",
				slog.String("file", path),
				slog.Int("operations", len(actions)))
			plans[i] = plan{Path: path, Request: req, Actions: actions}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
