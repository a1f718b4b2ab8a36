package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Column is one entry of an additive schema policy
type Column struct {
	Name    string
	Type    string // SQL type, including any REFERENCES clause
	Default string // SQL default expression, empty for none
}

// TablePolicy lists the columns a table must carry
type TablePolicy struct {
	Table   string
	Columns []Column
}

// ErrTableMissing indicates that the table of a policy does not exist yet
type ErrTableMissing struct {
	Table string
}

func (e ErrTableMissing) Error() string {
	return "table does not exist: " + e.Table
}

const existingColumnsQuery = `
	SELECT column_name
	FROM information_schema.columns
	WHERE table_schema = current_schema() AND table_name = $1
`

// EnsureColumns adds every policy column that the table lacks. It never alters
// or drops anything, so running it again is a no-op. The names of the added
// columns are returned.
func EnsureColumns(ctx context.Context, q Querier, logger *slog.Logger, policy TablePolicy) ([]string, error) {
	existing, err := existingColumns(ctx, q, policy.Table)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, ErrTableMissing{Table: policy.Table}
	}

	var added []string
	for _, col := range policy.Columns {
		if existing[col.Name] {
			continue
		}
		if _, err := q.Exec(ctx, addColumnStatement(policy.Table, col)); err != nil {
			logger.Error("Failed to add column", "table", policy.Table, "column", col.Name, "error", err)
			return added, fmt.Errorf("failed to add column %s.%s: %w", policy.Table, col.Name, err)
		}
		logger.Info("Added missing column", "table", policy.Table, "column", col.Name, "type", col.Type)
		added = append(added, col.Name)
	}

	return added, nil
}

func existingColumns(ctx context.Context, q Querier, table string) (map[string]bool, error) {
	rows, err := q.Query(ctx, existingColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column name: %w", err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating columns of %s: %w", table, err)
	}
	return columns, nil
}

func addColumnStatement(table string, col Column) string {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
		pgx.Identifier{table}.Sanitize(), pgx.Identifier{col.Name}.Sanitize(), col.Type)
	if col.Default != "" {
		stmt += " DEFAULT " + col.Default
	}
	return stmt
}
