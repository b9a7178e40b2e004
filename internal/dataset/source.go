// Package dataset materializes sandbox databases from on-disk schema and
// seed definitions. Every lesson attempt gets a fresh, isolated in-memory
// SQLite instance; nothing is ever mutated in place across attempts.
package dataset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/sqlean/sqlean/internal/errors"
)

// Definition holds the raw SQL scripts for one dataset.
type Definition struct {
	Name string

	// Schema is the ordered DDL script (schema.sql)
	Schema string

	// Data is the ordered seed script (data.sql)
	Data string
}

// Source provides dataset definitions by name.
type Source interface {
	// Definition returns the schema and seed scripts for a dataset.
	Definition(name string) (*Definition, error)

	// List returns the available dataset names, sorted.
	List() ([]string, error)
}

// FSSource reads dataset definitions from a directory tree of the form
// <base>/<name>/{schema.sql,data.sql}.
type FSSource struct {
	basePath string
}

// NewFSSource creates a filesystem-backed dataset source.
func NewFSSource(basePath string) *FSSource {
	return &FSSource{basePath: basePath}
}

// Definition reads the schema/data pair for the named dataset.
func (s *FSSource) Definition(name string) (*Definition, error) {
	dir := filepath.Join(s.basePath, name)

	schema, err := os.ReadFile(filepath.Join(dir, "schema.sql"))
	if err != nil {
		return nil, errors.NewDatasetError(errors.CodeDatasetNotFound,
			"dataset files not found for '"+name+"'", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "data.sql"))
	if err != nil {
		return nil, errors.NewDatasetError(errors.CodeDatasetNotFound,
			"dataset files not found for '"+name+"'", err)
	}

	return &Definition{
		Name:   name,
		Schema: string(schema),
		Data:   string(data),
	}, nil
}

// List returns the names of all directories containing a schema/data pair.
func (s *FSSource) List() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, errors.NewDatasetError(errors.CodeDatasetNotFound,
			"cannot read datasets directory", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.basePath, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "schema.sql")); err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, "data.sql")); err != nil {
			continue
		}
		names = append(names, entry.Name())
	}

	sort.Strings(names)
	return names, nil
}
