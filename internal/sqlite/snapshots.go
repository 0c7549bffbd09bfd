package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

// Save archives problem text under label and returns the new snapshot ID.
// It returns ErrInvalidContent for blank text.
func (a *Archive) Save(label, domain, problem string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.attached {
		return "", types.ErrArchiveDetached
	}
	if strings.TrimSpace(problem) == "" {
		return "", types.ErrInvalidContent
	}

	id := generateUUID()
	created := a.now().UTC().Format(timeLayout)
	if _, err := a.db.Exec(
		"INSERT INTO snapshots (snapshot_id, label, domain, problem, created_at) VALUES (?, ?, ?, ?, ?)",
		id, label, domain, problem, created,
	); err != nil {
		return "", fmt.Errorf("inserting snapshot: %w", err)
	}
	if err := a.persistLocked(); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the snapshot with the given ID.
func (a *Archive) Get(id string) (types.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.attached {
		return types.Snapshot{}, types.ErrArchiveDetached
	}
	if !validID(id) {
		return types.Snapshot{}, types.ErrInvalidID
	}
	row := a.db.QueryRow(
		"SELECT snapshot_id, label, domain, problem, created_at FROM snapshots WHERE snapshot_id = ?", id)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Snapshot{}, types.ErrNotFound
	}
	return s, err
}

// List returns every snapshot, newest first.
func (a *Archive) List() ([]types.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.attached {
		return nil, types.ErrArchiveDetached
	}
	return a.listLocked("DESC")
}

// Delete removes the snapshot with the given ID.
func (a *Archive) Delete(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.attached {
		return types.ErrArchiveDetached
	}
	if !validID(id) {
		return types.ErrInvalidID
	}
	res, err := a.db.Exec("DELETE FROM snapshots WHERE snapshot_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return types.ErrNotFound
	}
	return a.persistLocked()
}

func (a *Archive) listLocked(order string) ([]types.Snapshot, error) {
	rows, err := a.db.Query(
		"SELECT snapshot_id, label, domain, problem, created_at FROM snapshots ORDER BY created_at " + order + ", snapshot_id " + order)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []types.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// persistLocked rewrites snapshots.jsonl from the table, oldest first.
// The caller must hold the write lock.
func (a *Archive) persistLocked() error {
	snapshots, err := a.listLocked("ASC")
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(snapshots))
	for _, s := range snapshots {
		b, err := json.Marshal(snapshotRecord{
			SnapshotID: s.SnapshotID,
			Label:      s.Label,
			Domain:     s.Domain,
			Problem:    s.Problem,
			CreatedAt:  s.CreatedAt.UTC().Format(timeLayout),
		})
		if err != nil {
			return fmt.Errorf("encoding snapshot %s: %w", s.SnapshotID, err)
		}
		records = append(records, b)
	}
	return writeJSONL(filepath.Join(a.config.DataDir, snapshotsFile), records)
}

// timeLayout is fixed width so that created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// snapshotRecord is one line of snapshots.jsonl.
type snapshotRecord struct {
	SnapshotID string `json:"snapshot_id"`
	Label      string `json:"label"`
	Domain     string `json:"domain"`
	Problem    string `json:"problem"`
	CreatedAt  string `json:"created_at"`
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (types.Snapshot, error) {
	var s types.Snapshot
	var created string
	if err := row.Scan(&s.SnapshotID, &s.Label, &s.Domain, &s.Problem, &created); err != nil {
		return types.Snapshot{}, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("parsing created_at of %s: %w", s.SnapshotID, err)
	}
	s.CreatedAt = t
	return s, nil
}
