package dataset

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlean/sqlean/internal/errors"
)

// Builder materializes fresh in-memory databases from dataset definitions.
// It retains no state between Build calls; isolation between attempts comes
// from every call opening its own database.
type Builder struct {
	source Source
}

// NewBuilder creates a builder over the given dataset source.
func NewBuilder(source Source) *Builder {
	return &Builder{source: source}
}

// Build creates a new in-memory SQLite database and applies the named
// dataset's schema script followed by its seed script, in file order.
// The caller owns the returned handle and must Close it after validation.
func (b *Builder) Build(ctx context.Context, name string) (*sql.DB, error) {
	def, err := b.source.Definition(name)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.NewDatasetError(errors.CodeSchemaError,
			"failed to open in-memory database", err)
	}

	// A :memory: database lives and dies with its connection. Pin the pool
	// to a single connection so database/sql never hands out a second,
	// empty memory database mid-session.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, def.Schema); err != nil {
		db.Close()
		return nil, errors.NewDatasetError(errors.CodeSchemaError,
			"failed to apply schema for '"+name+"'", err).
			WithDetails(map[string]interface{}{"dataset": name, "phase": "schema"})
	}

	if _, err := db.ExecContext(ctx, def.Data); err != nil {
		db.Close()
		return nil, errors.NewDatasetError(errors.CodeSeedError,
			"failed to seed data for '"+name+"'", err).
			WithDetails(map[string]interface{}{"dataset": name, "phase": "seed"})
	}

	return db, nil
}

// List returns the available dataset names.
func (b *Builder) List() ([]string, error) {
	return b.source.List()
}
