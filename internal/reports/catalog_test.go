package reports

import (
	"bytes"
	"strings"
	"testing"
)

func TestCatalogNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, q := range Catalog {
		if q.Name == "" {
			t.Error("Catalog query with empty name")
		}
		if q.Description == "" {
			t.Errorf("Query %s has no description", q.Name)
		}
		if q.SQL == "" {
			t.Errorf("Query %s has no SQL", q.Name)
		}
		if seen[q.Name] {
			t.Errorf("Duplicate query name: %s", q.Name)
		}
		seen[q.Name] = true
	}
}

func TestGet(t *testing.T) {
	q, err := Get("stores-by-country")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if q.Name != "stores-by-country" {
		t.Errorf("Got query %s, want stores-by-country", q.Name)
	}

	if _, err := Get("no-such-query"); err == nil {
		t.Error("Expected error for unknown query name")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != len(Catalog) {
		t.Fatalf("Names returned %d entries, want %d", len(names), len(Catalog))
	}
	for i, q := range Catalog {
		if names[i] != q.Name {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], q.Name)
		}
	}
}

func TestCatalogQueriesAreReadOnly(t *testing.T) {
	for _, q := range Catalog {
		sql := strings.ToUpper(q.SQL)
		for _, verb := range []string{"INSERT ", "UPDATE ", "DELETE ", "DROP ", "ALTER "} {
			if strings.Contains(sql, verb) {
				t.Errorf("Query %s contains %s statement", q.Name, strings.TrimSpace(verb))
			}
		}
	}
}

func TestCatalogOrderings(t *testing.T) {
	// Result orderings are part of each query's contract.
	tests := []struct {
		name      string
		wantOrder string
	}{
		{"stores-by-country", "ORDER BY country_code"},
		{"online-vs-offline", "ORDER BY location DESC"},
		{"sales-by-store-type", "ORDER BY total_sales DESC"},
		{"german-store-sales", "ORDER BY total_sales"},
		{"sales-velocity", "ORDER BY AVG(gap) DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Get(tt.name)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !strings.Contains(q.SQL, tt.wantOrder) {
				t.Errorf("Query %s missing ordering %q", tt.name, tt.wantOrder)
			}
		})
	}
}

func TestResultWrite(t *testing.T) {
	r := &Result{
		Query:   Query{Name: "stores-by-country", Description: "Stores per country"},
		Columns: []string{"country_code", "total_no_stores"},
		Rows: [][]string{
			{"DE", "141"},
			{"GB", "265"},
			{"US", "34"},
		},
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"stores-by-country: Stores per country",
		"country_code",
		"total_no_stores",
		"GB",
		"265",
		"(3 rows)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestResultWriteEmpty(t *testing.T) {
	r := &Result{
		Query:   Query{Name: "q", Description: "d"},
		Columns: []string{"a"},
	}

	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(0 rows)") {
		t.Errorf("Output missing row count:\n%s", buf.String())
	}
}
