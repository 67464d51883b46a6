package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// Table reads every row of a named table on the source database.
func Table(ctx context.Context, q db.Querier, name string) (*table.Table, error) {
	logging.Info().Str("table", name).Msg("Reading source table")
	t, err := db.ReadTable(ctx, q, name)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("table", name).Int("rows", t.Len()).Msg("Records loaded")
	return t, nil
}

// FindOrdersTable locates the orders table on the source database by name.
// The legacy database is introspected rather than hard-coded because the
// table has been renamed across environments.
func FindOrdersTable(ctx context.Context, q db.Querier) (string, error) {
	tables, err := db.ListTables(ctx, q)
	if err != nil {
		return "", err
	}
	for _, name := range tables {
		if strings.Contains(strings.ToLower(name), "order") {
			return name, nil
		}
	}
	return "", fmt.Errorf("no orders table found among %d tables", len(tables))
}
