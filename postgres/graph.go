package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/layerdag"
)

// PutGraph persists g as the snapshot for graphID, replacing whatever was
// there before. The stored layer_index column is an observational snapshot
// of g.LayerOf at write time, for SQL-side querying; it is not read back on
// GetGraph, since the layering is always recomputed deterministically from
// the persisted nodes and edges.
func (s *SnapshotStore) PutGraph(ctx context.Context, graphID string, g *layerdag.Graph) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("layerdag/postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM layerdag_edges WHERE graph_id = $1`, graphID); err != nil {
		return fmt.Errorf("layerdag/postgres: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM layerdag_nodes WHERE graph_id = $1`, graphID); err != nil {
		return fmt.Errorf("layerdag/postgres: delete nodes: %w", err)
	}

	for _, n := range g.Nodes() {
		idx := -1
		if lid, ok := g.LayerOf(n.ID); ok {
			if layer, ok := g.Layers()[lid]; ok {
				idx = layer.Index
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO layerdag_nodes (graph_id, id, data, layer_index) VALUES ($1, $2, $3, $4)`,
			graphID, n.ID, nonNilData(n.Data), idx,
		); err != nil {
			return fmt.Errorf("layerdag/postgres: insert node %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO layerdag_edges (graph_id, id, source_id, target_id, source_port, target_port, data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			graphID, e.ID, e.SourceID, e.TargetID, e.SourcePort, e.TargetPort, nonNilData(e.Data),
		); err != nil {
			return fmt.Errorf("layerdag/postgres: insert edge %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("layerdag/postgres: commit: %w", err)
	}
	return nil
}

// GetGraph rebuilds the graph stored under graphID by replaying its
// persisted nodes and edges through layerdag.NewGraph — the layer
// assignment and any structural invariant violation are recomputed from
// scratch, never trusted from storage. Returns nil, nil if graphID has no
// persisted nodes.
func (s *SnapshotStore) GetGraph(ctx context.Context, graphID string) (*layerdag.Graph, error) {
	nodeRows, err := s.db.Query(ctx,
		`SELECT id, data FROM layerdag_nodes WHERE graph_id = $1 ORDER BY created_at`, graphID)
	if err != nil {
		return nil, fmt.Errorf("layerdag/postgres: query nodes: %w", err)
	}
	defer nodeRows.Close()

	var nodes []layerdag.Node
	for nodeRows.Next() {
		var id string
		var data []byte
		if err := nodeRows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("layerdag/postgres: scan node: %w", err)
		}
		nodes = append(nodes, layerdag.Node{ID: layerdag.NodeID(id), Data: data})
	}
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("layerdag/postgres: rows nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	edgeRows, err := s.db.Query(ctx,
		`SELECT source_id, target_id, source_port, target_port, data FROM layerdag_edges WHERE graph_id = $1 ORDER BY created_at`, graphID)
	if err != nil {
		return nil, fmt.Errorf("layerdag/postgres: query edges: %w", err)
	}
	defer edgeRows.Close()

	var edges []layerdag.Edge
	for edgeRows.Next() {
		var e layerdag.Edge
		var data []byte
		if err := edgeRows.Scan(&e.SourceID, &e.TargetID, &e.SourcePort, &e.TargetPort, &data); err != nil {
			return nil, fmt.Errorf("layerdag/postgres: scan edge: %w", err)
		}
		e.Data = data
		edges = append(edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("layerdag/postgres: rows edges: %w", err)
	}

	g, err := layerdag.NewGraph(layerdag.NewGraphOptions{Nodes: nodes, Edges: edges})
	if err != nil {
		return nil, fmt.Errorf("layerdag/postgres: rebuild graph %s: %w", graphID, err)
	}
	return g, nil
}

// DeleteGraph removes the persisted snapshot for graphID. No error if it
// doesn't exist.
func (s *SnapshotStore) DeleteGraph(ctx context.Context, graphID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("layerdag/postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM layerdag_edges WHERE graph_id = $1`, graphID); err != nil {
		return fmt.Errorf("layerdag/postgres: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM layerdag_nodes WHERE graph_id = $1`, graphID); err != nil {
		return fmt.Errorf("layerdag/postgres: delete nodes: %w", err)
	}

	return tx.Commit(ctx)
}

// nonNilData substitutes an empty JSON object for nil, since data columns
// are NOT NULL but callers may add nodes/edges with no payload.
func nonNilData(data []byte) []byte {
	if data == nil {
		return []byte("{}")
	}
	return data
}

// ListGraphIDs returns every distinct graph id with a persisted snapshot.
func (s *SnapshotStore) ListGraphIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT graph_id FROM layerdag_nodes ORDER BY graph_id`)
	if err != nil {
		return nil, fmt.Errorf("layerdag/postgres: list graph ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("layerdag/postgres: scan graph id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("layerdag/postgres: rows graph ids: %w", err)
	}
	return ids, nil
}
