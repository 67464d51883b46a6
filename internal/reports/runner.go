package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
)

// Result holds the tabular output of one catalog query.
type Result struct {
	Query   Query
	Columns []string
	Rows    [][]string
}

// Run executes a catalog query against the target database. Failures are
// wrapped as QueryError with the driver error preserved.
func Run(ctx context.Context, q db.Querier, query Query) (*Result, error) {
	rows, err := q.Query(ctx, query.SQL)
	if err != nil {
		return nil, &pipeline.QueryError{Query: query.Name, Err: err}
	}
	defer rows.Close()

	result := &Result{Query: query}
	for _, fd := range rows.FieldDescriptions() {
		result.Columns = append(result.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, &pipeline.QueryError{Query: query.Name, Err: err}
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = db.FormatValue(v)
		}
		result.Rows = append(result.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, &pipeline.QueryError{Query: query.Name, Err: err}
	}
	return result, nil
}

// Write renders the result as an aligned text table.
func (r *Result) Write(w io.Writer) error {
	fmt.Fprintf(w, "%s: %s\n", r.Query.Name, r.Query.Description)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.Columns, "\t"))

	separators := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		separators[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(separators, "\t"))

	for _, row := range r.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "(%d rows)\n\n", len(r.Rows))
	return nil
}
