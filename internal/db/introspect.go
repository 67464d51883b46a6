package db

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// Querier is satisfied by both *pgxpool.Pool and *pgx.Conn.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListTables returns the names of the tables in the public schema.
func ListTables(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.Query(ctx, `
        SELECT table_name FROM information_schema.tables
        WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
        ORDER BY table_name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadTable extracts every row of a table into an in-memory table. Values
// are rendered to their text form; SQL NULL becomes the null cell.
func ReadTable(ctx context.Context, q Querier, name string) (*table.Table, error) {
	sql := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{name}.Sanitize())
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}
	t := table.New(columns...)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = FormatValue(v)
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

// FormatValue renders a scanned database value as a string cell.
// SQL NULL maps to the null cell; dates drop their zero time component.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return table.Null
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format("2006-01-02 15:04:05")
	case [16]byte:
		// uuid columns scan as raw bytes
		return fmt.Sprintf("%x-%x-%x-%x-%x", v[0:4], v[4:6], v[6:8], v[8:10], v[10:16])
	}

	if valuer, ok := v.(driver.Valuer); ok {
		if dv, err := valuer.Value(); err == nil && dv != nil {
			return FormatValue(dv)
		}
	}
	return fmt.Sprint(v)
}
