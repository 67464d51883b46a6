package db

import (
	"testing"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

func TestFormatValue(t *testing.T) {
	date := time.Date(2018, 10, 10, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2018, 10, 10, 22, 0, 6, 0, time.UTC)
	rawUUID := [16]byte{
		0x93, 0xca, 0xf1, 0x82, 0xe4, 0xe9, 0x4c, 0x6e,
		0xbe, 0xbb, 0x60, 0xa1, 0xa9, 0xdc, 0xf9, 0xb8,
	}

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil is null", nil, table.Null},
		{"string", "hello", "hello"},
		{"bytes", []byte("hello"), "hello"},
		{"bool", true, "true"},
		{"int16", int16(32), "32"},
		{"int32", int32(-5), "-5"},
		{"int64", int64(120000), "120000"},
		{"float64", 12.99, "12.99"},
		{"whole float64", float64(42), "42"},
		{"midnight renders as date", date, "2018-10-10"},
		{"timestamp keeps time", stamp, "2018-10-10 22:00:06"},
		{"uuid bytes", rawUUID, "93caf182-e4e9-4c6e-bebb-60a1a9dcf9b8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.input); got != tt.want {
				t.Errorf("FormatValue(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
