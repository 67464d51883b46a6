package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const recordOrientedJSON = `[
	{
		"timestamp": "22:00:06",
		"month": "9",
		"year": "2012",
		"date_uuid": "93caf182-e4e9-4c6e-bebb-60a1a9dcf9b8",
		"time_period": "Evening",
		"day": "19"
	},
	{
		"timestamp": "09:14:30",
		"month": "3",
		"year": "1997",
		"date_uuid": "8b0fcb64-9b13-407b-b959-bc1d186f1e89",
		"time_period": "Morning",
		"day": "2"
	}
]`

const columnOrientedJSON = `{
	"timestamp":   {"0": "22:00:06", "1": "09:14:30"},
	"month":       {"0": "9", "1": "3"},
	"year":        {"0": "2012", "1": "1997"},
	"date_uuid":   {"0": "93caf182-e4e9-4c6e-bebb-60a1a9dcf9b8",
	                "1": "8b0fcb64-9b13-407b-b959-bc1d186f1e89"},
	"time_period": {"0": "Evening", "1": "Morning"},
	"day":         {"0": "19", "1": "2"}
}`

func TestParseDateEvents(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"record oriented", recordOrientedJSON},
		{"column oriented", columnOrientedJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateEvents([]byte(tt.body))
			if err != nil {
				t.Fatalf("parseDateEvents failed: %v", err)
			}

			if got.Len() != 2 {
				t.Fatalf("Got %d rows, want 2", got.Len())
			}
			if v := got.Get(0, "timestamp"); v != "22:00:06" {
				t.Errorf("Row 0 timestamp = %q, want 22:00:06", v)
			}
			if v := got.Get(1, "time_period"); v != "Morning" {
				t.Errorf("Row 1 time_period = %q, want Morning", v)
			}
			if v := got.Get(1, "day"); v != "2" {
				t.Errorf("Row 1 day = %q, want 2", v)
			}
		})
	}
}

func TestParseDateEventsInvalid(t *testing.T) {
	if _, err := parseDateEvents([]byte("not json")); err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestColumnsToTableRowOrder(t *testing.T) {
	// Row keys must sort numerically, not lexically: "10" after "9".
	columns := map[string]map[string]any{
		"timestamp": {},
		"month":     {},
		"year":      {},
		"date_uuid": {},
		"time_period": {},
		"day": {
			"0": "day0", "9": "day9", "10": "day10", "2": "day2",
		},
	}

	got, err := columnsToTable(columns)
	if err != nil {
		t.Fatalf("columnsToTable failed: %v", err)
	}

	want := []string{"day0", "day2", "day9", "day10"}
	if got.Len() != len(want) {
		t.Fatalf("Got %d rows, want %d", got.Len(), len(want))
	}
	for i, w := range want {
		if v := got.Get(i, "day"); v != w {
			t.Errorf("Row %d day = %q, want %q", i, v, w)
		}
	}
}

func TestDateEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, recordOrientedJSON)
		}))
	defer server.Close()

	got, err := DateEvents(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("DateEvents failed: %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("Got %d rows, want 2", got.Len())
	}
}

func TestDateEventsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
	defer server.Close()

	if _, err := DateEvents(context.Background(), server.URL); err == nil {
		t.Error("Expected error for HTTP 404, got nil")
	}
}
