package sql

import "embed"

// SchemaFS contains all Postgres migration files under schema/
//
//go:embed schema/*.sql
var SchemaFS embed.FS
