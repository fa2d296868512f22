package migrations

import "embed"

// FS holds the numbered up/down migrations read by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
