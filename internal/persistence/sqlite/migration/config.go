package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig holds the connection settings applied to every chat database.
type SQLiteConfig struct {
	// BusyTimeout sets how long to wait for database locks held by the bot
	BusyTimeout time.Duration

	// Synchronous sets the synchronous mode (FULL, NORMAL, OFF)
	Synchronous string
}

// DefaultSQLiteConfig returns settings suitable for a one-off migration run.
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		BusyTimeout: 5 * time.Second,
		Synchronous: "FULL",
	}
}

// Validate validates the SQLite configuration
func (c SQLiteConfig) Validate() error {
	if c.BusyTimeout < 0 {
		return fmt.Errorf("BusyTimeout cannot be negative")
	}

	validSyncModes := map[string]bool{
		"OFF":    true,
		"NORMAL": true,
		"FULL":   true,
		"EXTRA":  true,
	}
	if c.Synchronous != "" && !validSyncModes[strings.ToUpper(c.Synchronous)] {
		return fmt.Errorf("invalid synchronous mode: %s", c.Synchronous)
	}

	return nil
}

// SQLiteOpener opens existing database files with the configured settings.
type SQLiteOpener struct {
	config SQLiteConfig
}

// NewSQLiteOpener creates a new SQLiteOpener
func NewSQLiteOpener(config SQLiteConfig) *SQLiteOpener {
	return &SQLiteOpener{config: config}
}

var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// dsn builds a read-write URI so that a missing file is reported instead of created.
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=rw"
}

// OpenDatabase opens the database at path. The pool is pinned to one
// connection so that PRAGMA settings and transactions share it.
func (o *SQLiteOpener) OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if err := o.config.Validate(); err != nil {
		return nil, NewDatabaseError(path, "", "validate config", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, NewDatabaseError(path, "", "open", err)
	}
	db.SetMaxOpenConns(1)

	if err := o.configure(ctx, db); err != nil {
		db.Close()
		return nil, NewDatabaseError(path, "", "configure", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, NewDatabaseError(path, "", "ping", err)
	}

	return db, nil
}

func (o *SQLiteOpener) configure(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		name  string
		value interface{}
	}{
		{"busy_timeout", int(o.config.BusyTimeout.Milliseconds())},
	}
	if o.config.Synchronous != "" {
		pragmas = append(pragmas, struct {
			name  string
			value interface{}
		}{"synchronous", strings.ToUpper(o.config.Synchronous)})
	}

	for _, pragma := range pragmas {
		var stmt string
		switch v := pragma.value.(type) {
		case string:
			stmt = fmt.Sprintf("PRAGMA %s = %s", pragma.name, v)
		case int:
			stmt = fmt.Sprintf("PRAGMA %s = %d", pragma.name, v)
		default:
			stmt = fmt.Sprintf("PRAGMA %s = %v", pragma.name, v)
		}

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set PRAGMA %s: %w", pragma.name, err)
		}
	}

	return nil
}
