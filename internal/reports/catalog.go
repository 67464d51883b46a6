// Package reports implements the fixed catalog of analytical queries run
// against the finalized star schema. Every query is a pure read with a
// fixed column set and explicit result ordering.
package reports

import "fmt"

// Query is one named catalog entry.
type Query struct {
	// Name is the catalog identifier.
	Name string

	// Description states the business question the query answers.
	Description string

	// SQL is the statement executed against the target database.
	SQL string
}

// Catalog is the ordered query catalog.
var Catalog = []Query{
	{
		Name:        "stores-by-country",
		Description: "How many stores does the business have in each country?",
		SQL: `
SELECT country_code, COUNT(*) AS total_no_stores
FROM dim_store_details
GROUP BY country_code
ORDER BY country_code`,
	},
	{
		Name:        "top-localities",
		Description: "Which locations have the most stores?",
		SQL: `
SELECT locality, COUNT(*) AS total_no_stores
FROM dim_store_details
GROUP BY locality
HAVING COUNT(*) >= 10
ORDER BY total_no_stores DESC, locality`,
	},
	{
		Name:        "months-by-sales",
		Description: "Which months produce the largest amount of sales?",
		SQL: `
SELECT ROUND(SUM(p.product_price * o.product_quantity)::numeric, 2) AS total_sales,
       d.month
FROM orders_table o
JOIN dim_date_times d ON o.date_uuid = d.date_uuid
JOIN dim_products p ON o.product_code = p.product_code
GROUP BY d.month
ORDER BY total_sales DESC
LIMIT 6`,
	},
	{
		Name:        "online-vs-offline",
		Description: "How many sales are coming from online versus physical stores?",
		SQL: `
SELECT COUNT(*) AS numbers_of_sales,
       SUM(o.product_quantity) AS product_quantity_count,
       CASE WHEN s.store_type = 'Web Portal' THEN 'Web' ELSE 'Offline' END AS location
FROM orders_table o
JOIN dim_store_details s ON o.store_code = s.store_code
GROUP BY location
ORDER BY location DESC`,
	},
	{
		Name:        "sales-by-store-type",
		Description: "What percentage of sales comes through each type of store?",
		SQL: `
SELECT s.store_type,
       ROUND(SUM(p.product_price * o.product_quantity)::numeric, 2) AS total_sales,
       ROUND((SUM(p.product_price * o.product_quantity) * 100.0 / t.grand_total)::numeric, 2) AS "percentage_total(%)"
FROM orders_table o
JOIN dim_store_details s ON o.store_code = s.store_code
JOIN dim_products p ON o.product_code = p.product_code
CROSS JOIN (
    SELECT SUM(p.product_price * o.product_quantity) AS grand_total
    FROM orders_table o
    JOIN dim_products p ON o.product_code = p.product_code
) t
GROUP BY s.store_type, t.grand_total
ORDER BY total_sales DESC`,
	},
	{
		Name:        "sales-by-month-year",
		Description: "Which month in which year produced the highest cost of sales?",
		SQL: `
SELECT ROUND(SUM(p.product_price * o.product_quantity)::numeric, 2) AS total_sales,
       d.year,
       d.month
FROM orders_table o
JOIN dim_date_times d ON o.date_uuid = d.date_uuid
JOIN dim_products p ON o.product_code = p.product_code
GROUP BY d.year, d.month
ORDER BY total_sales DESC
LIMIT 10`,
	},
	{
		Name:        "staff-by-country",
		Description: "What is the staff headcount in each country?",
		SQL: `
SELECT SUM(staff_numbers) AS total_staff_numbers, country_code
FROM dim_store_details
GROUP BY country_code
ORDER BY total_staff_numbers DESC`,
	},
	{
		Name:        "german-store-sales",
		Description: "Which German store type is selling the most?",
		SQL: `
SELECT ROUND(SUM(p.product_price * o.product_quantity)::numeric, 2) AS total_sales,
       s.store_type,
       s.country_code
FROM orders_table o
JOIN dim_store_details s ON o.store_code = s.store_code
JOIN dim_products p ON o.product_code = p.product_code
WHERE s.country_code = 'DE'
GROUP BY s.store_type, s.country_code
ORDER BY total_sales`,
	},
	{
		Name:        "sales-velocity",
		Description: "How quickly is the company making sales, year on year?",
		SQL: `
WITH sale_times AS (
    SELECT d.year,
           TO_TIMESTAMP(
               CONCAT(d.year, '-', d.month, '-', d.day, ' ', d.timestamp),
               'YYYY-MM-DD HH24:MI:SS') AS sale_time
    FROM orders_table o
    JOIN dim_date_times d ON o.date_uuid = d.date_uuid
),
gaps AS (
    SELECT year,
           LEAD(sale_time) OVER (PARTITION BY year ORDER BY sale_time) - sale_time AS gap
    FROM sale_times
)
SELECT year,
       EXTRACT(HOUR FROM AVG(gap))::int AS hours,
       EXTRACT(MINUTE FROM AVG(gap))::int AS minutes,
       FLOOR(EXTRACT(SECOND FROM AVG(gap)))::int AS seconds,
       FLOOR((EXTRACT(SECOND FROM AVG(gap)) - FLOOR(EXTRACT(SECOND FROM AVG(gap)))) * 1000)::int AS milliseconds
FROM gaps
WHERE gap IS NOT NULL
GROUP BY year
ORDER BY AVG(gap) DESC
LIMIT 5`,
	},
}

// Get retrieves a catalog query by name.
func Get(name string) (Query, error) {
	for _, q := range Catalog {
		if q.Name == name {
			return q, nil
		}
	}
	return Query{}, fmt.Errorf("unknown query: %s", name)
}

// Names returns the catalog query names in order.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, q := range Catalog {
		names[i] = q.Name
	}
	return names
}
