package cli

import (
	"testing"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
)

func namedDatasets(names ...string) []pipeline.Dataset {
	datasets := make([]pipeline.Dataset, len(names))
	for i, name := range names {
		datasets[i] = pipeline.Dataset{Name: name}
	}
	return datasets
}

func TestSelectDatasets(t *testing.T) {
	all := []string{"users", "cards", "stores", "products", "date_times", "orders"}

	tests := []struct {
		name      string
		only      []string
		skip      []string
		want      []string
		wantError bool
	}{
		{
			name: "no flags keeps everything",
			want: all,
		},
		{
			name: "only",
			only: []string{"users", "orders"},
			want: []string{"users", "orders"},
		},
		{
			name: "skip",
			skip: []string{"cards"},
			want: []string{"users", "stores", "products", "date_times", "orders"},
		},
		{
			name: "skip wins over only",
			only: []string{"users", "orders"},
			skip: []string{"orders"},
			want: []string{"users"},
		},
		{
			name:      "unknown only name",
			only:      []string{"invoices"},
			wantError: true,
		},
		{
			name:      "unknown skip name",
			skip:      []string{"invoices"},
			wantError: true,
		},
		{
			name:      "everything skipped",
			skip:      all,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectDatasets(namedDatasets(all...), tt.only, tt.skip)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("selectDatasets failed: %v", err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("Got %d datasets, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Name != want {
					t.Errorf("Dataset %d = %s, want %s", i, got[i].Name, want)
				}
			}
		})
	}
}
