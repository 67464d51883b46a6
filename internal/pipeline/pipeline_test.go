package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// recordingLoader records load order and optionally fails named tables.
type recordingLoader struct {
	loaded []string
	failOn map[string]error
}

func (l *recordingLoader) Replace(ctx context.Context, t *table.Table, name string) error {
	if err := l.failOn[name]; err != nil {
		return err
	}
	l.loaded = append(l.loaded, name)
	return nil
}

func okExtract(ctx context.Context) (*table.Table, error) {
	t := table.New("a")
	t.MustAppendRow("1")
	return t, nil
}

func identity(t *table.Table) *table.Table { return t }

func dataset(name, target string, fact bool) Dataset {
	return Dataset{
		Name:    name,
		Target:  target,
		Fact:    fact,
		Extract: okExtract,
		Clean:   identity,
	}
}

func testDatasets() []Dataset {
	return []Dataset{
		dataset("users", "dim_users", false),
		dataset("stores", "dim_store_details", false),
		dataset("orders", "orders_table", true),
	}
}

func TestRunLoadsDimensionsBeforeFact(t *testing.T) {
	loader := &recordingLoader{}

	// The fact dataset is listed first on purpose; it must still load last.
	datasets := []Dataset{
		dataset("orders", "orders_table", true),
		dataset("users", "dim_users", false),
		dataset("stores", "dim_store_details", false),
	}

	if err := Run(context.Background(), datasets, loader); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(loader.loaded) != 3 {
		t.Fatalf("Loaded %d tables, want 3", len(loader.loaded))
	}
	if loader.loaded[len(loader.loaded)-1] != "orders_table" {
		t.Errorf("Fact table loaded at position %v, want last: %v",
			loader.loaded, loader.loaded)
	}
}

func TestRunSkipsFactWhenDimensionFails(t *testing.T) {
	loader := &recordingLoader{
		failOn: map[string]error{"dim_users": errors.New("load failed")},
	}

	err := Run(context.Background(), testDatasets(), loader)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	for _, name := range loader.loaded {
		if name == "orders_table" {
			t.Error("Fact table loaded despite a failed dimension")
		}
	}
	// The healthy dimension must still have loaded.
	found := false
	for _, name := range loader.loaded {
		if name == "dim_store_details" {
			found = true
		}
	}
	if !found {
		t.Error("Independent dimension not loaded after another failed")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("Expected a SchemaError for the skipped fact table, got: %v", err)
	}
}

func TestRunWrapsExtractionFailure(t *testing.T) {
	extractErr := errors.New("connection refused")
	datasets := testDatasets()
	datasets[0].Extract = func(ctx context.Context) (*table.Table, error) {
		return nil, extractErr
	}

	err := Run(context.Background(), datasets, &recordingLoader{})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var sourceErr *SourceError
	if !errors.As(err, &sourceErr) {
		t.Fatalf("Expected SourceError, got: %v", err)
	}
	if sourceErr.Source != "users" {
		t.Errorf("SourceError.Source = %q, want users", sourceErr.Source)
	}
	if !errors.Is(err, extractErr) {
		t.Errorf("Error should wrap the extraction error, got: %v", err)
	}
}

func TestRunJoinsAllFailures(t *testing.T) {
	loader := &recordingLoader{
		failOn: map[string]error{
			"dim_users":         errors.New("users failed"),
			"dim_store_details": errors.New("stores failed"),
		},
	}

	err := Run(context.Background(), testDatasets(), loader)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	msg := err.Error()
	for _, want := range []string{"users failed", "stores failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Joined error missing %q: %v", want, msg)
		}
	}
}

func TestRunCleanIsApplied(t *testing.T) {
	cleaned := false
	datasets := []Dataset{
		{
			Name:    "users",
			Target:  "dim_users",
			Extract: okExtract,
			Clean: func(t *table.Table) *table.Table {
				cleaned = true
				return t
			},
		},
	}

	if err := Run(context.Background(), datasets, &recordingLoader{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !cleaned {
		t.Error("Clean was not called")
	}
}
