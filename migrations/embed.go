// Package migrations carries the schema migration files compiled into the
// binary, so the runner works regardless of the process working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
