package hclbatch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"audit-quote/core/quote"
	"audit-quote/internal/errors"
)

// Quote pairs a project with its estimate.
type Quote struct {
	Project Project       `json:"project"`
	Result  *quote.Result `json:"result"`
}

// Estimate quotes every project. Results keep the input order. The first
// failure cancels the remaining work and no partial result is returned.
func Estimate(ctx context.Context, projects []Project) ([]Quote, error) {
	quotes := make([]Quote, len(projects))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range projects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := quote.Estimate(p.Request)
			if err != nil {
				if e, ok := errors.As(err); ok {
					return e.WithContext("project", p.Name)
				}
				return err
			}
			quotes[i] = Quote{Project: p, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

// EstimateFile parses path and quotes every project in it.
func EstimateFile(ctx context.Context, path string) ([]Quote, error) {
	projects, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Estimate(ctx, projects)
}
