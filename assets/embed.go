package assets

import (
	"embed"
	"io/fs"
)

//go:embed profiles.yaml sql/*.sql
var FS embed.FS

// Profiles returns the bundled difficulty catalog (YAML).
func Profiles() ([]byte, error) {
	return FS.ReadFile("profiles.yaml")
}

// Migrations returns the SQL migrations rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // embedded path is fixed
	}
	return sub
}
