// Tests for the snapshot archive lifecycle and queries.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/contingent/pkg/types"
)

func attached(t *testing.T, dir string) *Archive {
	t.Helper()
	a := NewArchive()
	if err := a.Attach(types.Config{DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { a.Detach() })
	return a
}

// clock returns a now func that advances one second per call.
func clock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestArchive_Attach(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "data")

	a := NewArchive()
	if err := a.Attach(types.Config{DataDir: tmpDir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer a.Detach()

	for _, name := range []string{dbFile, snapshotsFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	if err := a.Attach(types.Config{DataDir: tmpDir}); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestArchive_AttachValidatesConfig(t *testing.T) {
	a := NewArchive()
	if err := a.Attach(types.Config{}); !errors.Is(err, types.ErrDataDirEmpty) {
		t.Errorf("expected ErrDataDirEmpty, got %v", err)
	}
}

func TestArchive_Detach(t *testing.T) {
	a := NewArchive()
	if err := a.Attach(types.Config{DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := a.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := a.Detach(); err != nil {
		t.Errorf("second Detach should be a no-op, got %v", err)
	}

	if _, err := a.Save("x", "d", "(define (problem p))"); err != types.ErrArchiveDetached {
		t.Errorf("Save: expected ErrArchiveDetached, got %v", err)
	}
	if _, err := a.List(); err != types.ErrArchiveDetached {
		t.Errorf("List: expected ErrArchiveDetached, got %v", err)
	}
	if _, err := a.Get(generateUUID()); err != types.ErrArchiveDetached {
		t.Errorf("Get: expected ErrArchiveDetached, got %v", err)
	}
	if err := a.Delete(generateUUID()); err != types.ErrArchiveDetached {
		t.Errorf("Delete: expected ErrArchiveDetached, got %v", err)
	}
}

func TestArchive_SaveGet(t *testing.T) {
	a := attached(t, t.TempDir())

	id, err := a.Save("morning", "delivery", "(define (problem morning))")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !validID(id) {
		t.Fatalf("Save returned invalid ID %q", id)
	}

	got, err := a.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Label != "morning" || got.Domain != "delivery" || got.Problem != "(define (problem morning))" {
		t.Errorf("unexpected snapshot %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestArchive_Errors(t *testing.T) {
	a := attached(t, t.TempDir())

	if _, err := a.Save("empty", "d", "  \n"); err != types.ErrInvalidContent {
		t.Errorf("Save blank: expected ErrInvalidContent, got %v", err)
	}
	if _, err := a.Get("not-a-uuid"); err != types.ErrInvalidID {
		t.Errorf("Get: expected ErrInvalidID, got %v", err)
	}
	if _, err := a.Get(generateUUID()); err != types.ErrNotFound {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if err := a.Delete("not-a-uuid"); err != types.ErrInvalidID {
		t.Errorf("Delete: expected ErrInvalidID, got %v", err)
	}
	if err := a.Delete(generateUUID()); err != types.ErrNotFound {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestArchive_ListNewestFirst(t *testing.T) {
	a := attached(t, t.TempDir())
	a.now = clock()

	var ids []string
	for _, label := range []string{"first", "second", "third"} {
		id, err := a.Save(label, "d", "(define (problem "+label+"))")
		if err != nil {
			t.Fatalf("Save %s failed: %v", label, err)
		}
		ids = append(ids, id)
	}

	list, err := a.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(list))
	}
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if list[i].SnapshotID != want {
			t.Errorf("list[%d] = %s, want %s", i, list[i].SnapshotID, want)
		}
	}

	if err := a.Delete(ids[1]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	list, _ = a.List()
	if len(list) != 2 {
		t.Errorf("expected 2 snapshots after delete, got %d", len(list))
	}
}

func TestArchive_ReloadFromJSONL(t *testing.T) {
	dir := t.TempDir()

	a := NewArchive()
	a.now = clock()
	if err := a.Attach(types.Config{DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	keep, _ := a.Save("keep", "d", "(define (problem keep))")
	gone, _ := a.Save("gone", "d", "(define (problem gone))")
	if err := a.Delete(gone); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := a.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	b := attached(t, dir)
	list, err := b.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].SnapshotID != keep {
		t.Fatalf("expected only %s after reload, got %+v", keep, list)
	}
	if want := time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC); !list[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", list[0].CreatedAt, want)
	}
}
