package migration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// chatSchema mirrors the tables the bot creates for every chat database.
var chatSchema = []string{
	`CREATE TABLE IF NOT EXISTS forwarded_message (
		message_id INTEGER PRIMARY KEY NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS link (
		link TEXT PRIMARY KEY NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS statistic (
		user_id INTEGER PRIMARY KEY NOT NULL,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
}

// createChatDB writes a chat database with the given number of forwarded
// messages and stored user_version.
func createChatDB(t *testing.T, dir, name string, version, messages int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open fixture database: %v", err)
	}
	defer db.Close()

	for _, stmt := range chatSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create fixture schema: %v", err)
		}
	}
	if version >= 1 {
		if _, err := db.Exec("ALTER TABLE forwarded_message ADD COLUMN sender_id INTEGER"); err != nil {
			t.Fatalf("Failed to add sender_id to fixture: %v", err)
		}
	}
	for i := 1; i <= messages; i++ {
		if _, err := db.Exec("INSERT INTO forwarded_message (message_id) VALUES (?)", 1000+i); err != nil {
			t.Fatalf("Failed to insert fixture row: %v", err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		t.Fatalf("Failed to set fixture user_version: %v", err)
	}

	return path
}

// createEmptyDB writes a database with a stored user_version but no chat tables.
func createEmptyDB(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open fixture database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE unrelated (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("Failed to create fixture table: %v", err)
	}
	return path
}

type dbState struct {
	version      int
	hasSenderID  bool
	rows         int
	zeroSenderID int
}

// readState inspects a database without going through the code under test.
func readState(t *testing.T, path string) dbState {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		t.Fatalf("Failed to open database for inspection: %v", err)
	}
	defer db.Close()

	var state dbState
	if err := db.QueryRow("PRAGMA user_version").Scan(&state.version); err != nil {
		t.Fatalf("Failed to read user_version: %v", err)
	}
	if err := db.QueryRow(
		"SELECT COUNT(*) > 0 FROM pragma_table_info('forwarded_message') WHERE name = 'sender_id'",
	).Scan(&state.hasSenderID); err != nil {
		t.Fatalf("Failed to inspect columns: %v", err)
	}

	var tables int
	if err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'forwarded_message'",
	).Scan(&tables); err != nil {
		t.Fatalf("Failed to inspect tables: %v", err)
	}
	if tables == 0 {
		return state
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM forwarded_message").Scan(&state.rows); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	if state.hasSenderID {
		if err := db.QueryRow("SELECT COUNT(*) FROM forwarded_message WHERE sender_id = 0").Scan(&state.zeroSenderID); err != nil {
			t.Fatalf("Failed to count backfilled rows: %v", err)
		}
	}
	return state
}

func fileBytes(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}
