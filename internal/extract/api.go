package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/config"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/retry"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// storeColumns is the column set returned by the store details endpoint.
var storeColumns = []string{
	"index", "address", "longitude", "lat", "locality", "store_code",
	"staff_numbers", "opening_date", "store_type", "latitude",
	"country_code", "continent",
}

// storeNoPlaceholder is replaced with the store index in the details URL.
const storeNoPlaceholder = "{store_no}"

// StoreAPI fetches store records from the authenticated store API.
type StoreAPI struct {
	client          *http.Client
	numberStoresURL string
	storeDetailsURL string
	key             string
	retry           retry.Config
}

// NewStoreAPI creates a connector for the configured store API.
func NewStoreAPI(cfg config.APIConfig) *StoreAPI {
	return &StoreAPI{
		client:          &http.Client{Timeout: 30 * time.Second},
		numberStoresURL: cfg.NumberStoresURL,
		storeDetailsURL: cfg.StoreDetailsURL,
		key:             cfg.Key,
		retry:           retry.DefaultConfig(),
	}
}

func (a *StoreAPI) headers() map[string]string {
	return map[string]string{"x-api-key": a.key}
}

// NumberOfStores returns the store count reported by the API.
func (a *StoreAPI) NumberOfStores(ctx context.Context) (int, error) {
	body, err := fetch(ctx, a.client, a.numberStoresURL, a.headers())
	if err != nil {
		return 0, fmt.Errorf("failed to get number of stores: %w", err)
	}

	var payload struct {
		NumberStores int `json:"number_stores"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("failed to decode store count: %w", err)
	}
	return payload.NumberStores, nil
}

// Stores fetches each store record by index and aggregates them into one
// table. A record that still fails after retries is skipped and logged;
// the listing fails only if every record fails.
func (a *StoreAPI) Stores(ctx context.Context, numStores int) (*table.Table, error) {
	t := table.New(storeColumns...)

	var skipped int
	for storeNo := 0; storeNo < numStores; storeNo++ {
		url := strings.Replace(a.storeDetailsURL, storeNoPlaceholder,
			strconv.Itoa(storeNo), 1)

		var body []byte
		err := retry.Do(ctx, a.retry, func() error {
			var ferr error
			body, ferr = fetch(ctx, a.client, url, a.headers())
			return ferr
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.Warn().
				Int("store_no", storeNo).
				Err(err).
				Msg("Skipping store record")
			skipped++
			continue
		}

		var record map[string]any
		if err := json.Unmarshal(body, &record); err != nil {
			logging.Warn().
				Int("store_no", storeNo).
				Err(err).
				Msg("Skipping malformed store record")
			skipped++
			continue
		}

		cells := make([]string, len(storeColumns))
		for i, col := range storeColumns {
			cells[i] = renderJSONValue(record[col])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	if numStores > 0 && t.Len() == 0 {
		return nil, fmt.Errorf("all %d store records failed", numStores)
	}
	if skipped > 0 {
		logging.Warn().
			Int("skipped", skipped).
			Int("loaded", t.Len()).
			Msg("Some store records could not be retrieved")
	}
	return t, nil
}

// renderJSONValue renders a decoded JSON value as a table cell.
func renderJSONValue(v any) string {
	switch v := v.(type) {
	case nil:
		return table.Null
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return fmt.Sprint(v)
}
