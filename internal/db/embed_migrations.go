package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/opsgate-migrate) and by the storage
// integration tests to bring up a schema.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
