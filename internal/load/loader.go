// Package load writes cleaned tables into the target database and applies
// the schema finalization steps: column type casts, derived columns,
// primary keys on the dimensions and foreign keys on the fact table.
package load

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// BatchSize is the number of rows per batch insert.
const BatchSize = 1000

// Loader writes tables to the target database.
type Loader struct {
	db        db.Querier
	batchSize int
}

// New creates a Loader.
func New(q db.Querier) *Loader {
	return &Loader{db: q, batchSize: BatchSize}
}

// Replace writes a table to the target database under the given name,
// dropping any existing contents first. All columns are created as TEXT;
// type casts are applied by the finalization step.
func (l *Loader) Replace(ctx context.Context, t *table.Table, name string) error {
	if len(t.Columns()) == 0 {
		return &pipeline.SchemaError{Table: name,
			Err: fmt.Errorf("table has no columns")}
	}

	if _, err := l.db.Exec(ctx, dropTableSQL(name)); err != nil {
		return &pipeline.SchemaError{Table: name, Err: err}
	}
	if _, err := l.db.Exec(ctx, createTableSQL(name, t.Columns())); err != nil {
		return &pipeline.SchemaError{Table: name, Err: err}
	}

	columns := insertColumnsSQL(t.Columns())
	batch := make([]string, 0, l.batchSize)
	for i := 0; i < t.Len(); i++ {
		batch = append(batch, rowLiteral(t.Row(i)))
		if len(batch) >= l.batchSize {
			if err := l.executeBatchInsert(ctx, name, columns, batch); err != nil {
				return &pipeline.SchemaError{Table: name, Err: err}
			}
			batch = batch[:0]
		}
	}
	if err := l.executeBatchInsert(ctx, name, columns, batch); err != nil {
		return &pipeline.SchemaError{Table: name, Err: err}
	}

	logging.Info().
		Str("table", name).
		Int("rows", t.Len()).
		Msg("Loaded table")
	return nil
}

func (l *Loader) executeBatchInsert(ctx context.Context, name, columns string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s",
		pgx.Identifier{name}.Sanitize(), columns, strings.Join(values, ", "))
	_, err := l.db.Exec(ctx, sql)
	return err
}

func dropTableSQL(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE",
		pgx.Identifier{name}.Sanitize())
}

func createTableSQL(name string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)",
		pgx.Identifier{name}.Sanitize(), strings.Join(defs, ", "))
}

func insertColumnsSQL(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// rowLiteral renders one row as a SQL values tuple. Null cells become SQL
// NULL; everything else is a quoted literal.
func rowLiteral(row []string) string {
	parts := make([]string, len(row))
	for i, v := range row {
		if table.IsNull(v) {
			parts[i] = "NULL"
		} else {
			parts[i] = "'" + escapeSingleQuote(v) + "'"
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
