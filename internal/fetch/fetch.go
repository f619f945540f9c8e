// Package fetch contains the best-effort metadata lookups that enrich a
// bookmark. Every lookup settles to a usable value: failures are converted to
// fallbacks locally and logged, never returned to the caller.
package fetch

import (
	"context"
	"sync"
)

// Resolver is a lookup that always settles to a usable value. Implementations
// must absorb their own failures and return a fallback instead of panicking
// or erroring, so independent resolvers can run together without one aborting
// the others.
type Resolver func(ctx context.Context) string

// JoinAll runs the resolvers concurrently and waits until every one has
// settled. Results are returned in argument order.
func JoinAll(ctx context.Context, resolvers ...Resolver) []string {
	results := make([]string, len(resolvers))
	var wg sync.WaitGroup
	for i, resolve := range resolvers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = resolve(ctx)
		}()
	}
	wg.Wait()
	return results
}
