package sql

import "embed"

// Migrations holds the schema bootstrap files, applied in filename order.
//
//go:embed migrations
var Migrations embed.FS
