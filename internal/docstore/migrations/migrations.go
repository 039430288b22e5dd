// Package migrations embeds the SQL migrations of the postgres document backend.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
