// Package migrations embeds the goose SQL migrations so they can be applied
// at startup and by the test helper without an external directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
