package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// snapshotColumns are read from each JSONL record, in insert order.
var snapshotColumns = []string{"snapshot_id", "label", "domain", "problem", "created_at"}

// loadAllJSONL reads snapshots.jsonl into SQLite inside one transaction:
// either every readable record loads or the table stays empty.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, snapshotsFile))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRecords(tx, "snapshots", snapshotColumns, usableSnapshots(records)); err != nil {
		return fmt.Errorf("loading %s: %w", snapshotsFile, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// usableSnapshots drops records whose created_at is not in timeLayout.
// Such a row would load but could never be scanned back.
func usableSnapshots(records []json.RawMessage) []json.RawMessage {
	out := records[:0:0]
	for _, rec := range records {
		var r snapshotRecord
		if err := json.Unmarshal(rec, &r); err != nil {
			continue
		}
		if _, err := time.Parse(timeLayout, r.CreatedAt); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// insertRecords inserts JSONL records into table. Unknown fields are
// ignored; records that fail to decode or violate a constraint are
// skipped.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders,
	))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = obj[col]
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}
	return nil
}
