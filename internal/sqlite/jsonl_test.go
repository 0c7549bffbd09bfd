// Tests for JSONL persistence of the snapshot archive.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONLInitializedEmpty(t *testing.T) {
	dir := t.TempDir()
	attached(t, dir)

	info, err := os.Stat(filepath.Join(dir, snapshotsFile))
	if err != nil {
		t.Fatalf("failed to stat %s: %v", snapshotsFile, err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestSnapshotPersistedToJSONL(t *testing.T) {
	dir := t.TempDir()
	a := attached(t, dir)

	id, err := a.Save("label-one", "delivery", "(define (problem p))")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, snapshotsFile))
	if err != nil {
		t.Fatalf("failed to read %s: %v", snapshotsFile, err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line in JSONL, got %d", len(lines))
	}
	var rec snapshotRecord
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if rec.SnapshotID != id || rec.Label != "label-one" || rec.Domain != "delivery" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestMalformedLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	good := `{"snapshot_id":"0194f1c2-7a00-7000-8000-000000000001","label":"ok","domain":"d","problem":"(define (problem ok))","created_at":"2026-03-01T12:00:00.000000000Z","future_field":1}`
	content := "not json\n\n" + good + "\n{\"snapshot_id\": \"missing columns\"}\n"
	if err := os.WriteFile(filepath.Join(dir, snapshotsFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := attached(t, dir)
	list, err := a.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Label != "ok" {
		t.Fatalf("expected only the well-formed record, got %+v", list)
	}
}

func TestRecordsWithBadTimestampsSkipped(t *testing.T) {
	dir := t.TempDir()
	good := `{"snapshot_id":"0194f1c2-7a00-7000-8000-000000000001","label":"ok","domain":"d","problem":"(define (problem ok))","created_at":"2026-03-01T12:00:00.000000000Z"}`
	short := `{"snapshot_id":"0194f1c2-7a00-7000-8000-000000000002","label":"short","domain":"d","problem":"(define (problem short))","created_at":"2026-03-01T12:00:00Z"}`
	words := `{"snapshot_id":"0194f1c2-7a00-7000-8000-000000000003","label":"words","domain":"d","problem":"(define (problem words))","created_at":"yesterday"}`
	content := good + "\n" + short + "\n" + words + "\n"
	if err := os.WriteFile(filepath.Join(dir, snapshotsFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := attached(t, dir)
	list, err := a.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Label != "ok" {
		t.Fatalf("expected only the record with a full timestamp, got %+v", list)
	}
	if _, err := a.Save("after", "d", "(define (problem after))"); err != nil {
		t.Fatalf("Save after skipped records failed: %v", err)
	}
	list, err = a.List()
	if err != nil {
		t.Fatalf("List after Save failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(list))
	}
}

func TestWriteJSONLReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	records := []json.RawMessage{json.RawMessage(`{"a":1}`), json.RawMessage(`{"b":2}`)}
	if err := writeJSONL(path, records); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}
	got, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}
