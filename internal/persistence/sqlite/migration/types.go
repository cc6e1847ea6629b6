package migration

import (
	"context"
	"database/sql"
)

// Step is a schema and data transformation that advances a database to Version.
type Step struct {
	Version     int      // user_version recorded once the step commits
	Description string   // Human-readable description of the step
	Statements  []string // SQL statements executed in order
}

// Outcome describes what happened to a database during a run.
type Outcome string

// Outcomes recorded in FileResult.
const (
	OutcomeMigrated       Outcome = "migrated"
	OutcomeAlreadyCurrent Outcome = "already_current"
)

// FileResult records the processing of a single database file.
type FileResult struct {
	Path        string
	FromVersion int
	ToVersion   int
	Outcome     Outcome
}

// Report summarises a run over a directory.
type Report struct {
	RunID   string
	Files   []FileResult
	Skipped int // entries that were not database files and were never opened
}

// Migrated returns the number of files advanced during the run.
func (r Report) Migrated() int {
	count := 0
	for _, f := range r.Files {
		if f.Outcome == OutcomeMigrated {
			count++
		}
	}
	return count
}

// ScanResult lists the entries of a database directory.
type ScanResult struct {
	Databases []string // full paths of database files, in directory order
	Skipped   []string // names of entries ignored by the scan
}

// Scanner enumerates database files in a directory.
type Scanner interface {
	// ScanDatabases lists database files directly inside dir
	ScanDatabases(dir string) (ScanResult, error)
}

// Opener opens a connection to an existing database file.
type Opener interface {
	// OpenDatabase opens the database at path without creating it
	OpenDatabase(ctx context.Context, path string) (*sql.DB, error)
}

// Executor reads and advances the schema version of one database.
type Executor interface {
	// UserVersion returns the stored schema version
	UserVersion(ctx context.Context) (int, error)

	// ApplyStep runs the step and records its version in one transaction
	ApplyStep(ctx context.Context, step Step) error
}
