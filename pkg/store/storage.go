package store

import (
	"context"

	"github.com/matchrings/backend/pkg/graph"
)

// GraphStorage mirrors the latest in-memory graph generation into a
// backing store so it can be restored after a restart, and answers
// liveness checks against that store. The cycle engine never reads
// through it at query time; SaveGraph replaces the mirrored edge set
// wholesale, matching the in-memory full-replace semantics.
type GraphStorage interface {
	SaveGraph(ctx context.Context, generation string, edges []graph.EdgeInput, labels map[string]string) error
	LoadGraph(ctx context.Context) ([]graph.EdgeInput, map[string]string, error)
	Ping(ctx context.Context) error
}
