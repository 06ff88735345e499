// Package migrations embeds the SQL schema migrations for the local state
// database of the web client. They are applied with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
