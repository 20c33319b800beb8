package db

import (
	"database/sql"
	"fmt"
)

const baseSchema = `
CREATE TABLE IF NOT EXISTS feeds (
  id INTEGER PRIMARY KEY,
  url TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  subtitle TEXT NOT NULL DEFAULT '',
  link TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
  feed_id INTEGER NOT NULL,
  room_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  notification_template TEXT,
  created_at TEXT NOT NULL,
  PRIMARY KEY (feed_id, room_id),
  FOREIGN KEY (feed_id) REFERENCES feeds(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_subscriptions_room_id ON subscriptions(room_id);

CREATE TABLE IF NOT EXISTS entries (
  feed_id INTEGER NOT NULL,
  id TEXT NOT NULL,
  date TEXT NOT NULL,
  title TEXT NOT NULL,
  summary TEXT NOT NULL,
  link TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (feed_id, id),
  FOREIGN KEY (feed_id) REFERENCES feeds(id) ON DELETE CASCADE
);
`

// columnMigration adds a column to an existing table when it is missing.
type columnMigration struct {
	table      string
	column     string
	definition string
}

// Applied in order; each one is idempotent.
var columnMigrations = []columnMigration{
	{table: "subscriptions", column: "send_notice", definition: "INTEGER NOT NULL DEFAULT 1"},
	{table: "feeds", column: "next_retry", definition: "INTEGER NOT NULL DEFAULT 0"},
	{table: "feeds", column: "error_count", definition: "INTEGER NOT NULL DEFAULT 0"},
	{table: "entries", column: "content", definition: "TEXT"},
}

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(baseSchema); err != nil {
		return fmt.Errorf("migrate base schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func runMigrations(db *sql.DB) error {
	for _, m := range columnMigrations {
		var count int
		err := db.QueryRow(
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
			m.table, m.column,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check %s.%s column: %w", m.table, m.column, err)
		}
		if count > 0 {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, m.table, m.column, m.definition)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("add %s.%s column: %w", m.table, m.column, err)
		}
	}

	// Dedup lookups and ordered replays both scan a feed's entries by date.
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_feed_date ON entries(feed_id, date)`); err != nil {
		return fmt.Errorf("create idx_entries_feed_date: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_feeds_next_retry ON feeds(next_retry)`); err != nil {
		return fmt.Errorf("create idx_feeds_next_retry: %w", err)
	}

	return nil
}
