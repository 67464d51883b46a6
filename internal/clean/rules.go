// Package clean implements the validation and normalization rules applied
// to each raw dataset before loading. Rules operate on a working copy of
// the input table; invalid values become null and rows missing required
// values are dropped, never repaired. Cleaners are deterministic and do
// not consult external state.
package clean

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// Fixed enumerations shared across datasets.
var (
	CountryCodes = []string{"DE", "GB", "US"}
	Continents   = []string{"Europe", "America"}
	TimePeriods  = []string{"Evening", "Morning", "Midday", "Late_Hours"}

	ProductCategories = []string{
		"diy", "food-and-drink", "health-and-beauty", "homeware",
		"pets", "sports-and-leisure", "toys-and-games",
	}
)

// Date layouts observed in the source data. Parsing tries each in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"January 2006 02",
	"2006 January 02",
	"02 January 2006",
}

var (
	containsDigit = regexp.MustCompile(`[0-9]`)
	nonDigit      = regexp.MustCompile(`[^0-9]+`)
	numericValue  = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	multipleAt    = regexp.MustCompile(`@{2,}`)
	validEmail    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@.]+$`)
	phoneNoise    = regexp.MustCompile(`[^0-9()Xx+]`)
)

// standardizeNulls maps the known null sentinels to the canonical null in
// every cell. Applied first by every dataset cleaner.
func standardizeNulls(t *table.Table) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range t.Columns() {
			t.Set(i, c, table.NormalizeCell(t.Get(i, c)))
		}
	}
}

// rejectNumerals nulls values in columns that must not contain digits
// (names, countries, store types, localities).
func rejectNumerals(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := t.Get(i, c)
			if !table.IsNull(v) && containsDigit.MatchString(v) {
				t.Set(i, c, table.Null)
			}
		}
	}
}

// cleanCardNumbers strips non-digit characters and nulls values left with
// fewer than 8 digits (the minimum length of a payment card number).
func cleanCardNumbers(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := nonDigit.ReplaceAllString(t.Get(i, c), "")
			if len(v) < 8 {
				v = table.Null
			}
			t.Set(i, c, v)
		}
	}
}

// cleanCategories nulls values outside the expected enumeration.
func cleanCategories(t *table.Table, column string, expected []string) {
	allowed := make(map[string]bool, len(expected))
	for _, v := range expected {
		allowed[v] = true
	}
	for i := 0; i < t.Len(); i++ {
		v := strings.TrimSpace(t.Get(i, column))
		if !allowed[v] {
			v = table.Null
		}
		t.Set(i, column, v)
	}
}

// dateOptions controls date cleaning.
type dateOptions struct {
	// layouts overrides the default mixed layouts when set.
	layouts []string

	// futureValid permits dates after the reference time.
	futureValid bool

	// now is the reference time for future-date checks; the zero value
	// means time.Now(). Cleaners pin it so that cleaning stays pure.
	now time.Time
}

// parseDate tries each layout in order and reports the first match.
func parseDate(v string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// cleanDates normalizes parseable dates to YYYY-MM-DD and nulls the rest.
func cleanDates(t *table.Table, columns []string, opts dateOptions) {
	layouts := opts.layouts
	if len(layouts) == 0 {
		layouts = dateLayouts
	}
	now := opts.now
	if now.IsZero() {
		now = time.Now()
	}
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := t.Get(i, c)
			if table.IsNull(v) {
				continue
			}
			d, ok := parseDate(v, layouts)
			if !ok || (!opts.futureValid && d.After(now)) {
				t.Set(i, c, table.Null)
				continue
			}
			t.Set(i, c, d.Format("2006-01-02"))
		}
	}
}

// cleanExpiryDates keeps valid MM/YY values as-is and nulls the rest.
func cleanExpiryDates(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := t.Get(i, c)
			if table.IsNull(v) {
				continue
			}
			if _, err := time.Parse("01/06", v); err != nil {
				t.Set(i, c, table.Null)
			}
		}
	}
}

// cleanEmails collapses repeated @ signs and nulls addresses that do not
// match local@domain.tld with exactly one @.
func cleanEmails(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := strings.TrimSpace(t.Get(i, c))
			if table.IsNull(v) {
				continue
			}
			v = multipleAt.ReplaceAllString(v, "@")
			if !validEmail.MatchString(v) {
				v = table.Null
			}
			t.Set(i, c, v)
		}
	}
}

// cleanNumeric strips an optional currency prefix and nulls values that
// are not plain decimal numbers.
func cleanNumeric(t *table.Table, columns []string, currencyPrefix string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := strings.TrimSpace(t.Get(i, c))
			if table.IsNull(v) {
				continue
			}
			if currencyPrefix != "" {
				v = strings.TrimSpace(strings.TrimPrefix(v, currencyPrefix))
			}
			if !numericValue.MatchString(v) {
				v = table.Null
			}
			t.Set(i, c, v)
		}
	}
}

// cleanPhoneNumbers strips everything except digits, parentheses, x's and
// plus signs; these are meaningful components (area code, extension,
// country code). Numbers left with fewer than 7 digits are nulled.
func cleanPhoneNumbers(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := phoneNoise.ReplaceAllString(t.Get(i, c), "")
			if len(nonDigit.ReplaceAllString(v, "")) < 7 {
				v = table.Null
			}
			t.Set(i, c, v)
		}
	}
}

// cleanUUIDs nulls values that do not parse as UUIDs.
func cleanUUIDs(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := t.Get(i, c)
			if table.IsNull(v) {
				continue
			}
			if _, err := uuid.Parse(v); err != nil {
				t.Set(i, c, table.Null)
			}
		}
	}
}

// Weight parsing. Observed valid forms: 999g, 999kg, 999ml, 999.99g,
// "99kg .", and multipacks like "10 x 999.99g". Millilitres are treated
// as grams one-to-one.
var (
	weightMultiplier = regexp.MustCompile(`(?i)([0-9]+)\s*x\s*[0-9]`)
	weightPerItem    = regexp.MustCompile(`(?i)([0-9.]+)\s*(g|kg|ml)\b`)
)

var unitToKg = map[string]float64{"kg": 1, "g": 0.001, "ml": 0.001}

// parseWeightKg parses a raw weight expression into kilograms.
func parseWeightKg(v string) (float64, bool) {
	m := weightPerItem.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	w, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	multiplier := 1.0
	if mm := weightMultiplier.FindStringSubmatch(v); mm != nil {
		n, err := strconv.Atoi(mm[1])
		if err != nil {
			return 0, false
		}
		multiplier = float64(n)
	}
	return w * multiplier * unitToKg[strings.ToLower(m[2])], true
}

// convertWeights replaces raw weight expressions with their value in
// kilograms; unparseable weights become null.
func convertWeights(t *table.Table, columns ...string) {
	for i := 0; i < t.Len(); i++ {
		for _, c := range columns {
			v := t.Get(i, c)
			if table.IsNull(v) {
				continue
			}
			kg, ok := parseWeightKg(v)
			if !ok {
				t.Set(i, c, table.Null)
				continue
			}
			t.Set(i, c, strconv.FormatFloat(kg, 'f', -1, 64))
		}
	}
}

// dropRowsWithNull returns a table without the rows that are null in any
// of the given columns.
func dropRowsWithNull(t *table.Table, columns ...string) *table.Table {
	return t.Filter(func(i int) bool {
		for _, c := range columns {
			if table.IsNull(t.Get(i, c)) {
				return false
			}
		}
		return true
	})
}

// dropIncompleteRows returns a table without any row that has a null cell.
func dropIncompleteRows(t *table.Table) *table.Table {
	return dropRowsWithNull(t, t.Columns()...)
}
