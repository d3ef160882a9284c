// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql with the pgx stdlib driver. It also owns the
// schema: SQL migrations are embedded and applied with goose.
package postgres
