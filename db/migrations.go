// Package db embeds the ledger schema migrations.
package db

import "embed"

// Migrations holds NNN_name.up.sql and NNN_name.down.sql pairs under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
