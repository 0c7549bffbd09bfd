// Package sqlite provides the public API for the SQLite snapshot archive.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/contingent/internal/sqlite"
)

// Archive is the snapshot archive: SQLite queries over a JSONL file that
// holds the durable copy.
type Archive = sqlite.Archive

// NewArchive creates a new snapshot archive. The archive is not attached;
// call Attach with a Config to open it.
//
// Example:
//
//	archive := sqlite.NewArchive()
//	err := archive.Attach(types.Config{DataDir: ".contingent-db", LogLevel: "warn"})
//	defer archive.Detach()
//	id, err := archive.Save("before-patrol", "delivery", problemText)
func NewArchive() *Archive {
	return sqlite.NewArchive()
}
