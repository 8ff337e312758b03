// Package migrations embeds the schema files applied by the store on open.
package migrations

import "embed"

// FS holds the .up.sql files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
