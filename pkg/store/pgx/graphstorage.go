package pgx

import (
	"context"
	"fmt"

	"github.com/matchrings/backend/pkg/graph"
	"github.com/matchrings/backend/pkg/logger"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// GraphDBStorage persists the latest graph generation in PostgreSQL.
// The mirror holds exactly one generation: SaveGraph deletes the
// previous rows and inserts the new ones inside a single transaction.
type GraphDBStorage struct {
	conn pgxIConn
}

// NewGraphDBStorageWithConnection creates a GraphDBStorage on an
// existing connection or pool.
func NewGraphDBStorageWithConnection(conn pgxIConn) *GraphDBStorage {
	return &GraphDBStorage{conn: conn}
}

// SaveGraph replaces the mirrored edge set and label map with the
// given generation's data.
func (s *GraphDBStorage) SaveGraph(ctx context.Context, generation string, edges []graph.EdgeInput, labels map[string]string) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM graph_edges`); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM graph_labels`); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}

	for i, edge := range edges {
		_, err := tx.Exec(ctx,
			`INSERT INTO graph_edges (generation, position, from_id, to_id, priority)
			 VALUES ($1, $2, $3, $4, $5)`,
			generation, i, edge.FromID, edge.ToID, edge.Priority,
		)
		if err != nil {
			return fmt.Errorf("failed to insert edge %d: %w", i, err)
		}
	}
	for id, name := range labels {
		_, err := tx.Exec(ctx,
			`INSERT INTO graph_labels (generation, person_id, display_name)
			 VALUES ($1, $2, $3)`,
			generation, id, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert label for %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit graph mirror: %w", err)
	}
	logger.Debug("[Storage] Graph mirrored", "generation", generation, "edges", len(edges))
	return nil
}

// LoadGraph returns the mirrored edge set in its original load order
// together with the label map. An empty mirror yields empty results,
// not an error.
func (s *GraphDBStorage) LoadGraph(ctx context.Context) ([]graph.EdgeInput, map[string]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT from_id, to_id, priority FROM graph_edges ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	edges := make([]graph.EdgeInput, 0)
	for rows.Next() {
		var edge graph.EdgeInput
		if err := rows.Scan(&edge.FromID, &edge.ToID, &edge.Priority); err != nil {
			return nil, nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read edges: %w", err)
	}

	labelRows, err := s.conn.Query(ctx, `SELECT person_id, display_name FROM graph_labels`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer labelRows.Close()

	labels := make(map[string]string)
	for labelRows.Next() {
		var id, name string
		if err := labelRows.Scan(&id, &name); err != nil {
			return nil, nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels[id] = name
	}
	if err := labelRows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read labels: %w", err)
	}

	return edges, labels, nil
}

// Ping verifies the backing store answers queries.
func (s *GraphDBStorage) Ping(ctx context.Context) error {
	var one int
	if err := s.conn.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	return nil
}
