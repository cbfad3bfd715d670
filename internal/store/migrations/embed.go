// Package migrations embeds the SQL schema migrations for the channel store.
// They are applied at startup through goose (see repomanager.RunMigrations).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
