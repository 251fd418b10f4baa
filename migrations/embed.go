// Package migrations embeds the catalog database schema and applies it with
// golang-migrate.
//
// Files follow NNN_name.(up|down).sql. Every up migration needs a matching down
// migration and sequence numbers start at 001 without gaps; Validate enforces
// this before anything touches the database.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
)

//go:embed *.sql
var embedded embed.FS

var filenamePattern = regexp.MustCompile(`^(\d{3})_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// Sentinel errors for migration set validation.
var (
	ErrNoMigrations     = errors.New("no migration files found")
	ErrUnpairedFile     = errors.New("migration has no matching up/down pair")
	ErrSequenceGap      = errors.New("gap in migration sequence")
	ErrSequenceStart    = errors.New("migration sequence must start at 001")
	ErrInvalidFilename  = errors.New("invalid migration filename")
	ErrDuplicateVersion = errors.New("duplicate migration version")
)

// FS returns the embedded migration files.
func FS() fs.FS {
	return embedded
}

// List returns the migration filenames in fsys, sorted. Non-SQL files are ignored;
// SQL files that do not follow the naming scheme are an error.
func List(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if path.Ext(name) != ".sql" {
			continue
		}

		if !filenamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %s (expected: 001_name.up.sql)", ErrInvalidFilename, name)
		}

		files = append(files, name)
	}

	sort.Strings(files)

	return files, nil
}

// Validate checks pairing and sequence of the migrations in fsys.
func Validate(fsys fs.FS) error {
	files, err := List(fsys)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoMigrations
	}

	type pair struct {
		name     string
		up, down bool
	}

	versions := make(map[int]*pair)

	for _, file := range files {
		m := filenamePattern.FindStringSubmatch(file)
		version, _ := strconv.Atoi(m[1])

		p, ok := versions[version]
		if !ok {
			p = &pair{name: m[2]}
			versions[version] = p
		} else if p.name != m[2] {
			return fmt.Errorf("%w: %03d used by %s and %s", ErrDuplicateVersion, version, p.name, m[2])
		}

		if m[3] == "up" {
			p.up = true
		} else {
			p.down = true
		}
	}

	ordered := make([]int, 0, len(versions))
	for version, p := range versions {
		if !p.up || !p.down {
			return fmt.Errorf("%w: %03d_%s", ErrUnpairedFile, version, p.name)
		}

		ordered = append(ordered, version)
	}

	sort.Ints(ordered)

	if ordered[0] != 1 {
		return fmt.Errorf("%w: found %03d", ErrSequenceStart, ordered[0])
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i] != ordered[i-1]+1 {
			return fmt.Errorf("%w: expected %03d, found %03d", ErrSequenceGap, ordered[i-1]+1, ordered[i])
		}
	}

	return nil
}
