package migration

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDirectoryScanner_ScanDatabases(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"b.db", "a.db", "notes.txt", "c.db-journal", "backup.db.bak"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.db"), 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "archive.db", "nested.db"), nil, 0o644); err != nil {
		t.Fatalf("Failed to create nested file: %v", err)
	}

	result, err := NewDirectoryScanner().ScanDatabases(dir)
	if err != nil {
		t.Fatalf("ScanDatabases failed: %v", err)
	}

	wantDatabases := []string{filepath.Join(dir, "a.db"), filepath.Join(dir, "b.db")}
	if !reflect.DeepEqual(result.Databases, wantDatabases) {
		t.Errorf("unexpected databases: %v", result.Databases)
	}
	wantSkipped := []string{"archive.db", "backup.db.bak", "c.db-journal", "notes.txt"}
	if !reflect.DeepEqual(result.Skipped, wantSkipped) {
		t.Errorf("unexpected skipped entries: %v", result.Skipped)
	}
}

func TestDirectoryScanner_EmptyDirectory(t *testing.T) {
	result, err := NewDirectoryScanner().ScanDatabases(t.TempDir())
	if err != nil {
		t.Fatalf("ScanDatabases failed: %v", err)
	}
	if len(result.Databases) != 0 || len(result.Skipped) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestDirectoryScanner_InvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chat.db")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	for _, path := range []string{filepath.Join(dir, "missing"), file} {
		_, err := NewDirectoryScanner().ScanDatabases(path)
		var fsErr *FileSystemError
		if !errors.As(err, &fsErr) {
			t.Errorf("expected FileSystemError for %s, got %v", path, err)
		}
	}
}

func TestIsDatabaseFile(t *testing.T) {
	cases := map[string]bool{
		"storage.db":    true,
		".db":           true,
		"storage.DB":    false,
		"storage.db3":   false,
		"storage.db.gz": false,
		"notes.txt":     false,
	}
	for name, want := range cases {
		if got := IsDatabaseFile(name); got != want {
			t.Errorf("IsDatabaseFile(%q) = %v, want %v", name, got, want)
		}
	}
}
