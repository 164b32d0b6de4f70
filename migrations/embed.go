// Package migrations embeds the journal schema into the binary.
package migrations

import "embed"

// FS holds every NNNN_description.sql migration at its root.
//
//go:embed *.sql
var FS embed.FS
