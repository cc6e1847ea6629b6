package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const userVersionQuery = "PRAGMA user_version"

// SQLiteExecutor implements the Executor interface for a single SQLite database
type SQLiteExecutor struct {
	db   *sql.DB
	path string
}

// NewSQLiteExecutor creates a new executor; path is only used in error reports.
func NewSQLiteExecutor(db *sql.DB, path string) *SQLiteExecutor {
	return &SQLiteExecutor{
		db:   db,
		path: path,
	}
}

// UserVersion returns the schema version stored in the database header
func (e *SQLiteExecutor) UserVersion(ctx context.Context) (int, error) {
	var version int
	if err := e.db.QueryRowContext(ctx, userVersionQuery).Scan(&version); err != nil {
		return 0, NewDatabaseError(e.path, userVersionQuery, "read user_version", err)
	}
	return version, nil
}

// ApplyStep executes the step statements and sets user_version to the step
// version inside one transaction. Nothing is committed if any statement fails.
func (e *SQLiteExecutor) ApplyStep(ctx context.Context, step Step) (err error) {
	if step.Version <= 0 {
		return NewDatabaseError(e.path, "", "apply step",
			fmt.Errorf("%w: step version %d", ErrInvalidVersion, step.Version))
	}
	if len(step.Statements) == 0 {
		return NewDatabaseError(e.path, "", "apply step", ErrEmptyStep)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return NewDatabaseError(e.path, "", "begin transaction", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback error: %v)", err, rbErr)
			}
		}
	}()

	for i, stmt := range step.Statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			err = NewDatabaseError(e.path, stmt, fmt.Sprintf("execute statement %d", i+1), execErr)
			return err
		}
	}

	setVersion := fmt.Sprintf("PRAGMA user_version = %d", step.Version)
	if _, execErr := tx.ExecContext(ctx, setVersion); execErr != nil {
		err = NewDatabaseError(e.path, setVersion, "set user_version", execErr)
		return err
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = NewDatabaseError(e.path, "", "commit transaction", commitErr)
		return err
	}

	return nil
}
