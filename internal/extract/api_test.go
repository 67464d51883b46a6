package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/config"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/retry"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// fastRetry keeps the retry waits out of test runtime.
func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, InitialWait: time.Millisecond}
}

func storeJSON(storeNo int) string {
	return fmt.Sprintf(`{
		"index": %d,
		"address": "Flat 7, Oak Road",
		"longitude": -0.1257,
		"lat": null,
		"locality": "Chapletown",
		"store_code": "CH-%08d",
		"staff_numbers": "32",
		"opening_date": "2004-08-01",
		"store_type": "Super Store",
		"latitude": 51.5085,
		"country_code": "GB",
		"continent": "Europe"
	}`, storeNo, storeNo)
}

func newStoreServer(t *testing.T, numStores int, fail map[int]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("x-api-key") != "test-key" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			if strings.HasSuffix(r.URL.Path, "/number_stores") {
				fmt.Fprintf(w, `{"number_stores": %d}`, numStores)
				return
			}

			var storeNo int
			if _, err := fmt.Sscanf(r.URL.Path, "/store_details/%d", &storeNo); err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if fail[storeNo] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, storeJSON(storeNo))
		}))
}

func newStoreAPI(server *httptest.Server) *StoreAPI {
	api := NewStoreAPI(config.APIConfig{
		NumberStoresURL: server.URL + "/number_stores",
		StoreDetailsURL: server.URL + "/store_details/{store_no}",
		Key:             "test-key",
	})
	api.retry = fastRetry()
	return api
}

func TestNumberOfStores(t *testing.T) {
	server := newStoreServer(t, 451, nil)
	defer server.Close()

	api := newStoreAPI(server)
	n, err := api.NumberOfStores(context.Background())
	if err != nil {
		t.Fatalf("NumberOfStores failed: %v", err)
	}
	if n != 451 {
		t.Errorf("NumberOfStores = %d, want 451", n)
	}
}

func TestNumberOfStoresUnauthorized(t *testing.T) {
	server := newStoreServer(t, 451, nil)
	defer server.Close()

	api := newStoreAPI(server)
	api.key = "wrong-key"

	if _, err := api.NumberOfStores(context.Background()); err == nil {
		t.Error("Expected error for rejected API key, got nil")
	}
}

func TestStores(t *testing.T) {
	server := newStoreServer(t, 3, nil)
	defer server.Close()

	api := newStoreAPI(server)
	got, err := api.Stores(context.Background(), 3)
	if err != nil {
		t.Fatalf("Stores failed: %v", err)
	}

	if got.Len() != 3 {
		t.Fatalf("Got %d rows, want 3", got.Len())
	}
	if cols := got.Columns(); len(cols) != len(storeColumns) {
		t.Errorf("Got %d columns, want %d", len(cols), len(storeColumns))
	}
	if v := got.Get(1, "store_code"); v != "CH-00000001" {
		t.Errorf("store_code = %q, want CH-00000001", v)
	}
	if v := got.Get(0, "lat"); v != table.Null {
		t.Errorf("JSON null should read as null cell, got %q", v)
	}
	if v := got.Get(0, "longitude"); v != "-0.1257" {
		t.Errorf("longitude = %q, want -0.1257", v)
	}
}

func TestStoresSkipsFailingRecord(t *testing.T) {
	server := newStoreServer(t, 3, map[int]bool{1: true})
	defer server.Close()

	api := newStoreAPI(server)
	got, err := api.Stores(context.Background(), 3)
	if err != nil {
		t.Fatalf("Stores failed: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("Got %d rows, want 2 (store 1 skipped)", got.Len())
	}
	for i := 0; i < got.Len(); i++ {
		if got.Get(i, "store_code") == "CH-00000001" {
			t.Error("Failing store record should not be present")
		}
	}
}

func TestStoresAllRecordsFailing(t *testing.T) {
	server := newStoreServer(t, 2, map[int]bool{0: true, 1: true})
	defer server.Close()

	api := newStoreAPI(server)
	if _, err := api.Stores(context.Background(), 2); err == nil {
		t.Error("Expected error when every record fails, got nil")
	}
}

func TestStoresCancelled(t *testing.T) {
	server := newStoreServer(t, 100, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := newStoreAPI(server)
	if _, err := api.Stores(ctx, 100); err == nil {
		t.Error("Expected error for cancelled context, got nil")
	}
}

func TestRenderJSONValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, table.Null},
		{"string", "hello", "hello"},
		{"whole float", float64(32), "32"},
		{"fractional float", 51.5085, "51.5085"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderJSONValue(tt.input); got != tt.want {
				t.Errorf("renderJSONValue(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
