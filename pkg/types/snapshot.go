package types

import "time"

// Snapshot is a rendered problem text archived for later inspection or
// reload. Reloading always goes back through the validating mutators.
type Snapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	Label      string    `json:"label"`
	Domain     string    `json:"domain"`
	Problem    string    `json:"problem"`
	CreatedAt  time.Time `json:"created_at"`
}
