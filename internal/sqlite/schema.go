package sqlite

// schemaDDL creates the snapshot table. created_at holds fixed-width UTC
// text in timeLayout.
const schemaDDL = `CREATE TABLE snapshots (
    snapshot_id TEXT PRIMARY KEY,
    label TEXT NOT NULL,
    domain TEXT NOT NULL,
    problem TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE INDEX idx_snapshots_created_at ON snapshots(created_at);`
