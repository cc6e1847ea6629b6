package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrMigrationFailed indicates that a step could not be applied to a database
	ErrMigrationFailed = errors.New("migration execution failed")

	// ErrInvalidVersion indicates that a stored or declared version is unusable
	ErrInvalidVersion = errors.New("invalid schema version")

	// ErrEmptyStep indicates that a step carries no SQL statements
	ErrEmptyStep = errors.New("migration step has no statements")
)

// DatabaseError wraps failures to open, query or mutate a database file.
type DatabaseError struct {
	Path      string // Database file (if known)
	Query     string // SQL that failed (if applicable)
	Operation string // Database operation (open, read version, apply step, ...)
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *DatabaseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("database error in %s during %s: %v", e.Path, e.Operation, e.Err)
	}
	return fmt.Sprintf("database error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(path, query, operation string, err error) *DatabaseError {
	return &DatabaseError{
		Path:      path,
		Query:     query,
		Operation: operation,
		Err:       err,
	}
}

// FileSystemError wraps file system related errors while scanning a directory
type FileSystemError struct {
	Path      string // File or directory path
	Operation string // File operation (read, scan, etc.)
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *FileSystemError) Error() string {
	return fmt.Sprintf("filesystem error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *FileSystemError) Unwrap() error {
	return e.Err
}

// NewFileSystemError creates a new FileSystemError
func NewFileSystemError(path, operation string, err error) *FileSystemError {
	return &FileSystemError{
		Path:      path,
		Operation: operation,
		Err:       err,
	}
}
