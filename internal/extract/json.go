package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// dateEventColumns is the column set of the date events document.
var dateEventColumns = []string{
	"timestamp", "month", "year", "date_uuid", "time_period", "day",
}

// DateEvents downloads and parses the date events JSON document. Both
// record-oriented (array of objects) and column-oriented (object of
// columns) layouts are accepted.
func DateEvents(ctx context.Context, url string) (*table.Table, error) {
	logging.Info().Str("url", url).Msg("Reading JSON data")

	client := &http.Client{Timeout: 60 * time.Second}
	body, err := fetch(ctx, client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON document: %w", err)
	}

	t, err := parseDateEvents(body)
	if err != nil {
		return nil, err
	}
	logging.Info().Int("rows", t.Len()).Msg("Records loaded")
	return t, nil
}

func parseDateEvents(body []byte) (*table.Table, error) {
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err == nil {
		return recordsToTable(records)
	}

	var columns map[string]map[string]any
	if err := json.Unmarshal(body, &columns); err != nil {
		return nil, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	return columnsToTable(columns)
}

func recordsToTable(records []map[string]any) (*table.Table, error) {
	t := table.New(dateEventColumns...)
	for _, record := range records {
		cells := make([]string, len(dateEventColumns))
		for i, col := range dateEventColumns {
			cells[i] = renderJSONValue(record[col])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// columnsToTable handles the column-oriented layout, where each column
// maps row keys ("0", "1", ...) to values. Rows are emitted in numeric
// key order so repeated extractions agree.
func columnsToTable(columns map[string]map[string]any) (*table.Table, error) {
	keySet := make(map[string]bool)
	for _, col := range columns {
		for k := range col {
			keySet[k] = true
		}
	}

	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr != nil || berr != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	t := table.New(dateEventColumns...)
	for _, k := range keys {
		cells := make([]string, len(dateEventColumns))
		for i, col := range dateEventColumns {
			cells[i] = renderJSONValue(columns[col][k])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}
	return t, nil
}
