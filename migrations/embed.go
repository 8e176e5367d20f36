// Package migrations embeds the SQL schema for the Postgres lead log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
