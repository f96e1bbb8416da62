package graph

import (
	"context"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/matchrings/backend/pkg/common"

	"golang.org/x/sync/errgroup"
)

// RawCycle is an ordered sequence of distinct person ids c0..ck-1 with
// a directed edge from each ci to ci+1 (mod k). The same logical chain
// may appear multiple times in raw output, once per start node or
// traversal direction; ScoreAndDedupe collapses those.
type RawCycle []string

const (
	DefaultMinCycleLen = 2
	DefaultMaxCycleLen = 10
)

type enumerateConfig struct {
	minLen    int
	maxLen    int
	maxVisits int
	parallel  int
}

type EnumerateOption func(*enumerateConfig)

// WithLengthBounds overrides the default cycle length bounds of
// [DefaultMinCycleLen, DefaultMaxCycleLen].
func WithLengthBounds(minLen, maxLen int) EnumerateOption {
	return func(c *enumerateConfig) {
		c.minLen = minLen
		c.maxLen = maxLen
	}
}

// WithMaxVisits sets a work budget on the search: once the total
// number of node expansions across all branches exceeds n, Enumerate
// aborts with a TimeoutError. Zero means no budget.
func WithMaxVisits(n int) EnumerateOption {
	return func(c *enumerateConfig) {
		c.maxVisits = n
	}
}

// WithParallelism caps the number of concurrent start-node searches.
func WithParallelism(n int) EnumerateOption {
	return func(c *enumerateConfig) {
		if n > 0 {
			c.parallel = n
		}
	}
}

// Enumerate finds every simple directed cycle in g whose length lies
// within the configured bounds. It runs a bounded depth-first search
// from every node: the current path is extended along outgoing edges
// to nodes not already on the path, a cycle is emitted when an edge
// leads back to the path's start while the length is in bounds, and
// branches are pruned once the path reaches the maximum length.
//
// The search is exponential in the worst case; the length bound keeps
// it tractable, and callers on dense graphs should also set a work
// budget via WithMaxVisits. Start-node searches run in parallel, each
// with private path state over the shared read-only graph; results
// merge in node-table order, so output is deterministic.
func Enumerate(ctx context.Context, g *common.Graph, opts ...EnumerateOption) ([]RawCycle, error) {
	cfg := enumerateConfig{
		minLen:   DefaultMinCycleLen,
		maxLen:   DefaultMaxCycleLen,
		parallel: runtime.NumCPU(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	ids := make([]string, 0, len(g.People))
	for id := range g.People {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	// Adjacency keyed by node index. Parallel edges collapse to one
	// entry here; they describe the same traversal step.
	adjSet := make([]map[int]bool, len(ids))
	for _, edge := range g.Edges {
		from := index[edge.FromID]
		if adjSet[from] == nil {
			adjSet[from] = make(map[int]bool)
		}
		adjSet[from][index[edge.ToID]] = true
	}
	adj := make([][]int, len(ids))
	for i, set := range adjSet {
		row := make([]int, 0, len(set))
		for next := range set {
			row = append(row, next)
		}
		sort.Ints(row)
		adj[i] = row
	}

	var visits atomic.Int64
	results := make([][]RawCycle, len(ids))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.parallel)
	for s := range ids {
		start := s
		eg.Go(func() error {
			onPath := make([]bool, len(ids))
			path := make([]int, 0, cfg.maxLen)

			var walk func(node int) error
			walk = func(node int) error {
				if err := gctx.Err(); err != nil {
					return err
				}
				total := visits.Add(1)
				if cfg.maxVisits > 0 && total > int64(cfg.maxVisits) {
					return &TimeoutError{Visited: int(total), Budget: cfg.maxVisits}
				}

				path = append(path, node)
				onPath[node] = true
				for _, next := range adj[node] {
					if next == start {
						if len(path) >= cfg.minLen && len(path) <= cfg.maxLen {
							cycle := make(RawCycle, len(path))
							for i, n := range path {
								cycle[i] = ids[n]
							}
							results[start] = append(results[start], cycle)
						}
						continue
					}
					if onPath[next] || len(path) >= cfg.maxLen {
						continue
					}
					if err := walk(next); err != nil {
						return err
					}
				}
				onPath[node] = false
				path = path[:len(path)-1]
				return nil
			}

			return walk(start)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	raw := make([]RawCycle, 0)
	for _, found := range results {
		raw = append(raw, found...)
	}
	return raw, nil
}
