package registry

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Loader produces a set of node and credential types. Implementations
// scan packaged definitions, plugin directories, or remote catalogs.
type Loader interface {
	Load(ctx context.Context) (*Types, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Types, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (*Types, error) { return f(ctx) }

// LoadAll runs all loaders concurrently and merges their results.
// The first loader failure cancels the rest and is returned.
func LoadAll(ctx context.Context, loaders ...Loader) (*Types, error) {
	results := make([]*Types, len(loaders))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range loaders {
		g.Go(func() error {
			t, err := l.Load(gctx)
			if err != nil {
				return fmt.Errorf("load types: %w", err)
			}
			results[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Types{}
	for _, t := range results {
		merged.Nodes = append(merged.Nodes, t.Nodes...)
		merged.Credentials = append(merged.Credentials, t.Credentials...)
	}
	return merged, nil
}

// Static returns a Loader that yields a fixed set of types.
func Static(types Types) Loader {
	return LoaderFunc(func(_ context.Context) (*Types, error) {
		return &types, nil
	})
}
