package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/chatdb-migrate/internal/logging"
)

// Migrator brings every database in a directory up to TargetVersion.
type Migrator struct {
	scanner     Scanner
	opener      Opener
	logger      *slog.Logger
	step        Step
	newExecutor func(db *sql.DB, path string) Executor
}

// NewMigrator creates a Migrator applying SenderIDStep.
func NewMigrator(scanner Scanner, opener Opener, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{
		scanner: scanner,
		opener:  opener,
		logger:  logger,
		step:    SenderIDStep,
		newExecutor: func(db *sql.DB, path string) Executor {
			return NewSQLiteExecutor(db, path)
		},
	}
}

// Run migrates the databases found directly inside dir, one at a time.
//
// The first storage failure stops the run; databases after it are left
// untouched. The report always covers the files processed before the failure.
func (m *Migrator) Run(ctx context.Context, dir string) (Report, error) {
	ctx, runID := logging.NewRunContext(ctx, m.logger)
	logger := logging.FromContext(ctx)
	report := Report{RunID: runID}
	startTime := time.Now()

	logger.Info("scanning database directory", "dir", dir)
	scan, err := m.scanner.ScanDatabases(dir)
	if err != nil {
		logger.Error("failed to scan database directory", "dir", dir, "error", err)
		return report, err
	}
	report.Skipped = len(scan.Skipped)
	for _, name := range scan.Skipped {
		logger.Debug("skipping entry", "name", name)
	}

	logger.Info("database scan complete",
		"databases", len(scan.Databases),
		"skipped", report.Skipped,
		"target_version", m.step.Version,
		"checksum", m.step.Checksum())

	for i, path := range scan.Databases {
		if err := ctx.Err(); err != nil {
			logger.Warn("migration run cancelled", "remaining", len(scan.Databases)-i)
			return report, err
		}

		result, err := m.migrateFile(ctx, path)
		if err != nil {
			logger.Error("migration aborted", "path", path, "position", i+1, "total", len(scan.Databases), "error", err)
			return report, err
		}
		report.Files = append(report.Files, result)
	}

	logger.Info("migration run completed",
		"processed", len(report.Files),
		"migrated", report.Migrated(),
		"duration", time.Since(startTime))

	return report, nil
}

// migrateFile opens one database, applies the step if needed and closes it on
// every path. Cancellation of ctx does not reach the file in progress; Run
// only observes it between files.
func (m *Migrator) migrateFile(ctx context.Context, path string) (result FileResult, err error) {
	ctx = context.WithoutCancel(ctx)
	logger := logging.FromContext(ctx).With("path", path)

	db, err := m.opener.OpenDatabase(ctx, path)
	if err != nil {
		return FileResult{}, err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			if err == nil {
				err = NewDatabaseError(path, "", "close", closeErr)
				return
			}
			logger.Warn("failed to close database", "error", closeErr)
		}
	}()

	executor := m.newExecutor(db, path)
	version, err := executor.UserVersion(ctx)
	if err != nil {
		return FileResult{}, err
	}

	result = FileResult{Path: path, FromVersion: version, ToVersion: version}
	if version >= m.step.Version {
		result.Outcome = OutcomeAlreadyCurrent
		logger.Info("database already current", "user_version", version)
		return result, nil
	}

	stepStart := time.Now()
	if err := executor.ApplyStep(ctx, m.step); err != nil {
		return FileResult{}, fmt.Errorf("%w: %s: %w", ErrMigrationFailed, path, err)
	}

	result.ToVersion = m.step.Version
	result.Outcome = OutcomeMigrated
	logger.Info("database migrated",
		"from_version", version,
		"to_version", m.step.Version,
		"step", m.step.Description,
		"duration", time.Since(stepStart))

	return result, nil
}
