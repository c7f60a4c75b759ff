// Package migrations embeds the schema migration files applied at startup
// when running on the postgres backend.
package migrations

import "embed"

//go:embed *.up.sql
var Files embed.FS
