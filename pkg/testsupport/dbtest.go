package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a shared in-memory SQLite database for
// storage-backed tests.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}
