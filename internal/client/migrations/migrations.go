// Package migrations embeds the SQL migrations applied to the local
// client database by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
