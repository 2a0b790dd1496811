// Package migrations embeds the SQL schema migrations applied by the migrate
// command and at server start.
package migrations

import "embed"

// FS holds the *.sql migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
