// Package migrations embeds the SQL migration files applied by goose at
// startup. The catalog schema and its seed rows both live here so a fresh
// database file is fully usable with no manual loading step.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
