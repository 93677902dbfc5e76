// Package migrations embeds the SQL migration files so the binary can
// apply its schema without the source tree on disk.
package migrations

import (
	"embed"
	"sort"
	"strings"
)

// FS contains the broker schema migrations.
//
//go:embed *.sql
var FS embed.FS

// List returns the embedded migration file names with the given suffix
// ("_up.sql" or "_down.sql"), sorted ascending.
func List(suffix string) ([]string, error) {
	entries, err := FS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
