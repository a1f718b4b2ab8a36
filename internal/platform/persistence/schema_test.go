package persistence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notesPolicy = TablePolicy{
	Table: "notes",
	Columns: []Column{
		{Name: "body", Type: "TEXT"},
		{Name: "weight", Type: "NUMERIC(10,3)", Default: "1.000"},
	},
}

func TestEnsureColumns(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	introspect := regexp.QuoteMeta(existingColumnsQuery)

	t.Run("adds only missing columns", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(introspect).WithArgs("notes").
			WillReturnRows(pgxmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("body"))
		mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "notes" ADD COLUMN IF NOT EXISTS "weight" NUMERIC(10,3) DEFAULT 1.000`)).
			WillReturnResult(pgxmock.NewResult("ALTER", 0))

		added, err := EnsureColumns(ctx, mock, logger, notesPolicy)
		require.NoError(t, err)
		assert.Equal(t, []string{"weight"}, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(introspect).WithArgs("notes").
			WillReturnRows(pgxmock.NewRows([]string{"column_name"}).AddRow("id").AddRow("body").AddRow("weight"))

		added, err := EnsureColumns(ctx, mock, logger, notesPolicy)
		require.NoError(t, err)
		assert.Empty(t, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing table", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(introspect).WithArgs("notes").
			WillReturnRows(pgxmock.NewRows([]string{"column_name"}))

		_, err = EnsureColumns(ctx, mock, logger, notesPolicy)
		assert.ErrorIs(t, err, ErrTableMissing{Table: "notes"})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("alter failure stops and reports progress", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(introspect).WithArgs("notes").
			WillReturnRows(pgxmock.NewRows([]string{"column_name"}).AddRow("id"))
		mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "notes" ADD COLUMN IF NOT EXISTS "body" TEXT`)).
			WillReturnResult(pgxmock.NewResult("ALTER", 0))
		mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "notes" ADD COLUMN IF NOT EXISTS "weight"`)).
			WillReturnError(errors.New("permission denied"))

		added, err := EnsureColumns(ctx, mock, logger, notesPolicy)
		assert.ErrorContains(t, err, "failed to add column notes.weight")
		assert.Equal(t, []string{"body"}, added)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddColumnStatement(t *testing.T) {
	stmt := addColumnStatement("transactions", Column{
		Name: "inventory_id",
		Type: "BIGINT REFERENCES inventory(id) ON DELETE SET NULL",
	})
	assert.Equal(t, `ALTER TABLE "transactions" ADD COLUMN IF NOT EXISTS "inventory_id" BIGINT REFERENCES inventory(id) ON DELETE SET NULL`, stmt)
}
