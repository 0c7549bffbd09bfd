// Package sqlite implements the snapshot archive: rendered problem texts
// kept under a data directory. JSONL is the source of truth and SQLite is
// the query engine, rebuilt from the JSONL on every Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

const (
	dbFile        = "archive.db"
	snapshotsFile = "snapshots.jsonl"
)

// Archive stores problem snapshots. It is safe for concurrent use.
type Archive struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	now      func() time.Time
}

// NewArchive creates an archive. It is not attached; call Attach with a
// Config to open it.
func NewArchive() *Archive {
	return &Archive{now: time.Now}
}

// Attach opens the archive under config.DataDir, creating the directory
// and snapshots.jsonl when missing, and loads the JSONL into a fresh
// SQLite database. It returns ErrAlreadyAttached if already attached.
func (a *Archive) Attach(config types.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is derived state; start from the JSONL every time.
	dbPath := filepath.Join(config.DataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}
	if err := initJSONL(config.DataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, config.DataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	a.db = db
	a.config = config
	a.attached = true
	return nil
}

// Detach closes the database. Further calls return ErrArchiveDetached.
// Detach is idempotent.
func (a *Archive) Detach() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.attached {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return err
	}
	a.db = nil
	a.attached = false
	return nil
}

// generateUUID generates a new UUID v7 for snapshot IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
