// Package assets embeds the default puzzle catalog and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed puzzles/*.yaml migrations/*.sql
var FS embed.FS

// Puzzles returns the embedded puzzle definitions, one YAML file each.
func Puzzles() fs.FS {
	sub, err := fs.Sub(FS, "puzzles")
	if err != nil {
		panic(err) // the directory is embedded above
	}
	return sub
}

// Migrations returns the embedded *.sql migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
