package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS layerdag_nodes (
    graph_id    TEXT NOT NULL,
    id          TEXT NOT NULL,
    data        JSONB NOT NULL DEFAULT '{}',
    layer_index INT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE IF NOT EXISTS layerdag_edges (
    graph_id    TEXT NOT NULL,
    id          TEXT NOT NULL,
    source_id   TEXT NOT NULL,
    target_id   TEXT NOT NULL,
    source_port TEXT NOT NULL DEFAULT '',
    target_port TEXT NOT NULL DEFAULT '',
    data        JSONB NOT NULL DEFAULT '{}',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (graph_id, id),
    FOREIGN KEY (graph_id, source_id) REFERENCES layerdag_nodes(graph_id, id) ON DELETE CASCADE,
    FOREIGN KEY (graph_id, target_id) REFERENCES layerdag_nodes(graph_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_layerdag_nodes_graph_id ON layerdag_nodes(graph_id);
CREATE INDEX IF NOT EXISTS idx_layerdag_edges_graph_id ON layerdag_edges(graph_id);
`

// CreateSchema creates the layerdag_nodes and layerdag_edges tables if they
// don't exist.
func (s *SnapshotStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the layerdag_edges and layerdag_nodes tables.
func (s *SnapshotStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS layerdag_edges, layerdag_nodes CASCADE;`)
	return err
}
