package dataset

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sqlean/sqlean/internal/errors"
)

// Introspect returns the CREATE statements for all user tables in db,
// formatted for display. Internal sqlite_* tables are skipped.
func Introspect(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name, sql FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return "", errors.NewDatasetError(errors.CodeSchemaError,
			"failed to read database schema", err)
	}
	defer rows.Close()

	var b strings.Builder
	found := false
	for rows.Next() {
		var name, ddl string
		if err := rows.Scan(&name, &ddl); err != nil {
			return "", errors.NewDatasetError(errors.CodeSchemaError,
				"failed to scan schema row", err)
		}
		if found {
			b.WriteString("\n\n")
		}
		b.WriteString("-- " + name + " --\n")
		b.WriteString(ddl + ";")
		found = true
	}
	if err := rows.Err(); err != nil {
		return "", errors.NewDatasetError(errors.CodeSchemaError,
			"failed to read database schema", err)
	}

	if !found {
		return "No tables found in this database.", nil
	}
	return b.String(), nil
}
