package db

import "embed"

//go:embed migrations/sqlite/*.sql
var SQLiteMigrations embed.FS

//go:embed migrations/postgres/*.sql
var PostgresMigrations embed.FS

const (
	SQLiteMigrationsDir   = "migrations/sqlite"
	PostgresMigrationsDir = "migrations/postgres"
)
