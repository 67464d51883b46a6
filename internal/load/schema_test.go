package load

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
)

func TestFinalizeStatementOrder(t *testing.T) {
	q := &fakeQuerier{}

	if err := Finalize(context.Background(), q); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	want := len(castSteps) + len(primaryKeySteps) + len(foreignKeySteps)
	if len(q.executed) != want {
		t.Fatalf("Executed %d statements, want %d", len(q.executed), want)
	}

	// Every primary key must be declared before the first foreign key.
	firstFK := -1
	lastPK := -1
	for i, sql := range q.executed {
		if strings.Contains(sql, "ADD PRIMARY KEY") {
			lastPK = i
		}
		if firstFK == -1 && strings.Contains(sql, "FOREIGN KEY") {
			firstFK = i
		}
	}
	if lastPK == -1 || firstFK == -1 {
		t.Fatal("Expected both primary key and foreign key statements")
	}
	if lastPK > firstFK {
		t.Error("Foreign keys declared before all primary keys")
	}
}

func TestFinalizeCoversAllTables(t *testing.T) {
	tables := map[string]bool{}
	for _, step := range castSteps {
		tables[step.Table] = true
	}

	for _, name := range []string{
		"dim_users", "dim_store_details", "dim_card_details",
		"dim_products", "dim_date_times", "orders_table",
	} {
		if !tables[name] {
			t.Errorf("No cast step for table %s", name)
		}
	}
}

func TestFinalizeForeignKeysReferenceEveryDimension(t *testing.T) {
	refs := strings.Builder{}
	for _, step := range foreignKeySteps {
		if step.Table != "orders_table" {
			t.Errorf("Foreign key declared on %s, want orders_table", step.Table)
		}
		refs.WriteString(step.SQL)
	}

	for _, dim := range []string{
		"dim_users", "dim_store_details", "dim_card_details",
		"dim_products", "dim_date_times",
	} {
		if !strings.Contains(refs.String(), "REFERENCES "+dim) {
			t.Errorf("No foreign key references %s", dim)
		}
	}
}

func TestFinalizeWrapsFailure(t *testing.T) {
	dbErr := errors.New("cast failed")
	q := &fakeQuerier{failOn: "ALTER TABLE dim_products", err: dbErr}

	err := Finalize(context.Background(), q)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var schemaErr *pipeline.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %T", err)
	}
	if schemaErr.Table != "dim_products" {
		t.Errorf("SchemaError.Table = %q, want dim_products", schemaErr.Table)
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("Error should wrap the driver error, got: %v", err)
	}
}

func TestWeightClassBreakpoints(t *testing.T) {
	// The derived weight class uses fixed breakpoints at 2, 40 and 140 kg.
	var caseStep string
	for _, step := range castSteps {
		if strings.Contains(step.SQL, "weight_class = CASE") {
			caseStep = step.SQL
		}
	}
	if caseStep == "" {
		t.Fatal("No weight_class derivation step found")
	}

	for _, want := range []string{
		"WHEN weight < 2   THEN 'Light'",
		"WHEN weight < 40  THEN 'Mid_Sized'",
		"WHEN weight < 140 THEN 'Heavy'",
		"ELSE 'Truck_Required'",
	} {
		if !strings.Contains(caseStep, want) {
			t.Errorf("weight_class CASE missing %q", want)
		}
	}
}
