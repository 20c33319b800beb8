package db_test

import (
	"database/sql"
	"net/url"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/maubot/rss/internal/db"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	database, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NotNil(t, database)
	defer database.Close()

	for _, table := range []string{"feeds", "subscriptions", "entries"} {
		var name string
		err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}
}

func TestMigrate_AddsBackoffAndNoticeColumns(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "cols.db"))
	require.NoError(t, err)
	defer database.Close()

	columns := map[string]string{
		"feeds":         "next_retry",
		"subscriptions": "send_notice",
		"entries":       "content",
	}
	for table, column := range columns {
		var count int
		err := database.QueryRow(`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count, table+"."+column)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "twice.db"))
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))
}

// A database created before the backoff columns existed must be upgraded in place.
func TestMigrate_UpgradesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	raw, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = raw.Exec(`
		CREATE TABLE feeds (id INTEGER PRIMARY KEY, url TEXT NOT NULL UNIQUE, title TEXT NOT NULL,
		  subtitle TEXT NOT NULL DEFAULT '', link TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL, updated_at TEXT NOT NULL);
		INSERT INTO feeds (id, url, title, created_at, updated_at) VALUES (1, 'https://example.com/rss', 'Example', 'x', 'x');
	`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()

	var errorCount, nextRetry int
	err = database.QueryRow(`SELECT error_count, next_retry FROM feeds WHERE id = 1`).Scan(&errorCount, &nextRetry)
	require.NoError(t, err)
	require.Zero(t, errorCount)
	require.Zero(t, nextRetry)
}

func TestBuildDSN(t *testing.T) {
	dsn := db.BuildDSN("test.db")
	require.Contains(t, dsn, "file:test.db")
	require.Contains(t, dsn, "journal_mode")
	require.Contains(t, dsn, "WAL")
	require.Contains(t, dsn, "foreign_keys")
}

// Pragmas applied via Exec only affect one pooled connection, so they must live in the DSN.
func TestBuildDSN_AllPragmasInDSN(t *testing.T) {
	decodedDSN, err := url.QueryUnescape(db.BuildDSN("mydb.sqlite"))
	require.NoError(t, err)

	for _, pragma := range []string{
		"journal_mode(WAL)",
		"foreign_keys(ON)",
		"busy_timeout(30000)",
		"synchronous(NORMAL)",
	} {
		require.Contains(t, decodedDSN, pragma, "DSN must contain pragma: "+pragma)
	}
}

func TestMigrate_ClosedDB(t *testing.T) {
	database, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	err = db.Migrate(database)
	require.Error(t, err)
}
