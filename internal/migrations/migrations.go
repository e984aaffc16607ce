// Package migrations embeds the goose migrations for the on-device SQLite
// store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
