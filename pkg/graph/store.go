package graph

import (
	"fmt"
	"sync/atomic"

	"github.com/matchrings/backend/pkg/common"
	"github.com/matchrings/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DuplicatePolicy controls how a load treats multiple edges between
// the same ordered pair of people.
type DuplicatePolicy int

const (
	// DuplicateLastWins keeps every edge record; when the same ordered
	// pair appears more than once, the priority of the last occurrence
	// is the one used for cycle scoring.
	DuplicateLastWins DuplicatePolicy = iota
	// DuplicateReject fails the load with a LoadError on the first
	// repeated ordered pair.
	DuplicateReject
)

// EdgeInput is one candidacy edge as provided by the caller of Load.
type EdgeInput struct {
	FromID   string
	ToID     string
	Priority *float64
}

// LoadResult reports the outcome of a successful load.
type LoadResult struct {
	Generation string
	NodeCount  int
	EdgeCount  int
}

type generation struct {
	id     string
	graph  *common.Graph
	labels map[string]string
}

// Store holds the single active graph generation. A load builds a
// complete new generation off to the side and publishes it with one
// atomic pointer swap, so concurrent readers observe either the old
// or the new graph in full, never a mix.
type Store struct {
	current    atomic.Pointer[generation]
	duplicates DuplicatePolicy
}

type StoreOption func(*Store)

// WithDuplicatePolicy overrides the default DuplicateLastWins policy.
func WithDuplicatePolicy(p DuplicatePolicy) StoreOption {
	return func(s *Store) {
		s.duplicates = p
	}
}

// NewStore creates a store holding an empty generation.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.current.Store(&generation{
		graph:  &common.Graph{People: map[string]common.Person{}},
		labels: map[string]string{},
	})
	return s
}

// Load replaces the active generation with a graph built from the
// given edges and label map. An edge with a missing endpoint id fails
// the whole load with a LoadError and leaves the previous generation
// untouched. An empty edge list is valid and yields an empty graph.
// Labels for ids no edge references are dropped; people exist only as
// edge endpoints.
func (s *Store) Load(edges []EdgeInput, labels map[string]string) (LoadResult, error) {
	g := &common.Graph{
		People: make(map[string]common.Person, len(edges)),
		Edges:  make([]common.CandidacyEdge, 0, len(edges)),
	}
	seen := make(map[[2]string]bool, len(edges))

	for i, edge := range edges {
		if edge.FromID == "" || edge.ToID == "" {
			return LoadResult{}, &LoadError{Reason: fmt.Sprintf("edge %d is missing an endpoint id", i)}
		}
		pair := [2]string{edge.FromID, edge.ToID}
		if seen[pair] && s.duplicates == DuplicateReject {
			return LoadResult{}, &LoadError{Reason: fmt.Sprintf("edge %d repeats the pair %s -> %s", i, edge.FromID, edge.ToID)}
		}
		seen[pair] = true

		g.Edges = append(g.Edges, common.CandidacyEdge{
			FromID:   edge.FromID,
			ToID:     edge.ToID,
			Priority: edge.Priority,
		})
		g.People[edge.FromID] = common.Person{ID: edge.FromID, Name: labels[edge.FromID]}
		g.People[edge.ToID] = common.Person{ID: edge.ToID, Name: labels[edge.ToID]}
	}

	genID, err := gonanoid.New()
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to create generation id: %w", err)
	}

	kept := make(map[string]string, len(g.People))
	for id := range g.People {
		if name, ok := labels[id]; ok {
			kept[id] = name
		}
	}

	s.current.Store(&generation{id: genID, graph: g, labels: kept})
	logger.Debug("[Store] Generation published", "generation", genID, "nodes", len(g.People), "edges", len(g.Edges))

	return LoadResult{
		Generation: genID,
		NodeCount:  len(g.People),
		EdgeCount:  len(g.Edges),
	}, nil
}

// Snapshot returns the active generation's graph. The graph is shared
// with other readers and must be treated as read-only; the store never
// mutates a published generation.
func (s *Store) Snapshot() *common.Graph {
	return s.current.Load().graph
}

// View returns the active generation's graph together with its label
// map in a single consistent read. Both must be treated as read-only.
func (s *Store) View() (*common.Graph, map[string]string) {
	gen := s.current.Load()
	return gen.graph, gen.labels
}

// Generation returns the id of the active generation, or the empty
// string before the first load.
func (s *Store) Generation() string {
	return s.current.Load().id
}
