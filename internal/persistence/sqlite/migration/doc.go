// Package migration upgrades a directory of per-chat SQLite databases to the
// current schema version.
//
// Each database records its schema version in the SQLite user_version header
// field. A database below TargetVersion receives SenderIDStep: a sender_id
// column on forwarded_message, backfilled with 0. The statements and the new
// user_version are committed in a single transaction, so a file is either
// fully migrated or left as it was.
//
// Files are processed one at a time in directory order and the run stops at
// the first storage failure.
//
// Example usage:
//
//	migrator := NewMigrator(NewDirectoryScanner(), NewSQLiteOpener(DefaultSQLiteConfig()), logger)
//	report, err := migrator.Run(ctx, dir)
//	if err != nil {
//		log.Fatalf("Migration failed: %v", err)
//	}
package migration
