package db

import "embed"

// Migrations holds the SQL migration files compiled into the binary so the
// server can migrate its own schema without shipping the files alongside it.
//
//go:embed migrations/*.sql
var Migrations embed.FS
