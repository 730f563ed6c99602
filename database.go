package lms

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewPostgresDB wraps an open Postgres connection in a bun handle suitable
// for di.WithBunDB.
func NewPostgresDB(sqlDB *sql.DB) *bun.DB {
	return bun.NewDB(sqlDB, pgdialect.New())
}

// NewSQLiteDB wraps an open SQLite connection in a bun handle suitable for
// di.WithBunDB. SQLite needs a single writer connection.
func NewSQLiteDB(sqlDB *sql.DB) *bun.DB {
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db
}
