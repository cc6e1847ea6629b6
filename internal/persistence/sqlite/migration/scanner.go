package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseSuffix marks the directory entries treated as chat databases.
const DatabaseSuffix = ".db"

// DirectoryScanner implements the Scanner interface over the local filesystem
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new DirectoryScanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// IsDatabaseFile reports whether an entry name carries the database suffix.
func IsDatabaseFile(name string) bool {
	return strings.HasSuffix(name, DatabaseSuffix)
}

// ScanDatabases lists the database files directly inside dir. Subdirectories
// are never descended into and are reported as skipped even if their name
// carries the suffix.
func (s *DirectoryScanner) ScanDatabases(dir string) (ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return ScanResult{}, NewFileSystemError(dir, "scan directory", err)
	}
	if !info.IsDir() {
		return ScanResult{}, NewFileSystemError(dir, "scan directory", fmt.Errorf("not a directory"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ScanResult{}, NewFileSystemError(dir, "read directory", err)
	}

	var result ScanResult
	for _, entry := range entries {
		name := entry.Name()
		if !IsDatabaseFile(name) || s.isDirectory(dir, entry) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		result.Databases = append(result.Databases, filepath.Join(dir, name))
	}

	return result, nil
}

// isDirectory resolves symlinks so a link to a directory is skipped too.
func (s *DirectoryScanner) isDirectory(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}
