// Package schemas provides embedded SQL migration files.
package schemas

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrations contains all SQL migration files, one directory per database driver.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS

// Statements returns the migration statements of a driver in file name order.
func Statements(driverName string) ([]string, error) {
	dir := path.Join("migrations", driverName)
	entries, err := fs.ReadDir(Migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	statements := make([]string, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(Migrations, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
		}
		statements = append(statements, strings.TrimSpace(string(content)))
	}
	return statements, nil
}
