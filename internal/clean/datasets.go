package clean

import (
	"strings"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// Cleaner applies the per-dataset rule sequences. Now is the reference
// time for future-date checks; the zero value means time.Now(), tests pin
// it for determinism.
type Cleaner struct {
	Now time.Time
}

// New creates a Cleaner.
func New() *Cleaner {
	return &Cleaner{}
}

func (c *Cleaner) dates(t *table.Table, columns []string, futureValid bool) {
	cleanDates(t, columns, dateOptions{futureValid: futureValid, now: c.Now})
}

func logDropped(dataset string, before, after int) {
	logging.Info().
		Str("dataset", dataset).
		Int("rows_in", before).
		Int("rows_out", after).
		Int("dropped", before-after).
		Msg("Cleaned dataset")
}

// Users cleans the legacy user data. Names and countries must not contain
// numerals; dates of birth and join dates must parse and not lie in the
// future; country codes are normalized (GGB is a known typo for GB) and
// checked against the valid set; phone numbers, emails and the user UUID
// are validated. Rows without both names are dropped.
func (c *Cleaner) Users(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)

	rejectNumerals(t, "first_name", "last_name", "country")
	c.dates(t, []string{"date_of_birth", "join_date"}, false)

	for i := 0; i < t.Len(); i++ {
		if t.Get(i, "country_code") == "GGB" {
			t.Set(i, "country_code", "GB")
		}
	}
	cleanCategories(t, "country_code", CountryCodes)

	cleanPhoneNumbers(t, "phone_number")
	cleanEmails(t, "email_address")
	cleanUUIDs(t, "user_uuid")

	out := dropRowsWithNull(t, "first_name", "last_name")
	logDropped("users", raw.Len(), out.Len())
	return out
}

// Cards cleans the card details extracted from the PDF. A valid card has a
// number of at least 8 digits, an MM/YY expiry date, and a payment
// confirmation date that parses and is not in the future.
func (c *Cleaner) Cards(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)

	cleanCardNumbers(t, "card_number")
	cleanExpiryDates(t, "expiry_date")
	c.dates(t, []string{"date_payment_confirmed"}, false)

	out := dropRowsWithNull(t,
		"card_number", "expiry_date", "date_payment_confirmed")
	logDropped("cards", raw.Len(), out.Len())
	return out
}

// Stores cleans the store details fetched from the API. The redundant lat
// column is merged into latitude and dropped; continents lose a known
// "ee" typo prefix; store types and localities must not contain numerals.
// A store must have a store code, a store type, and a valid country code.
func (c *Cleaner) Stores(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)

	if t.HasColumn("lat") {
		for i := 0; i < t.Len(); i++ {
			if table.IsNull(t.Get(i, "latitude")) {
				t.Set(i, "latitude", t.Get(i, "lat"))
			}
		}
		t.DropColumn("lat")
	}

	c.dates(t, []string{"opening_date"}, true)
	cleanCategories(t, "country_code", CountryCodes)

	for i := 0; i < t.Len(); i++ {
		v := strings.TrimPrefix(t.Get(i, "continent"), "ee")
		if v != "" {
			v = strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
		}
		t.Set(i, "continent", v)
	}
	cleanCategories(t, "continent", Continents)

	rejectNumerals(t, "store_type", "locality")
	cleanNumeric(t, []string{"latitude", "longitude", "staff_numbers"}, "")

	out := dropRowsWithNull(t, "store_code", "store_type", "country_code")
	logDropped("stores", raw.Len(), out.Len())
	return out
}

// Products cleans the product data from object storage. Weights are
// converted to kilograms, the currency symbol is stripped from prices,
// the category must be one of the fixed set, and a known spelling error
// in the removed column is fixed. A product record must be complete.
func (c *Cleaner) Products(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)
	t.DropColumn("index")

	convertWeights(t, "weight")
	cleanNumeric(t, []string{"product_price"}, "£")
	c.dates(t, []string{"date_added"}, true)
	cleanCategories(t, "category", ProductCategories)
	cleanUUIDs(t, "uuid")

	for i := 0; i < t.Len(); i++ {
		if t.Get(i, "removed") == "Still_avaliable" {
			t.Set(i, "removed", "Still_available")
		}
	}

	out := dropIncompleteRows(t)
	logDropped("products", raw.Len(), out.Len())
	return out
}

// Orders cleans the fact table data. Spurious bookkeeping columns are
// dropped, the card number and product quantity are validated, and both
// UUID keys must parse. Any row missing a remaining field is dropped.
func (c *Cleaner) Orders(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)

	for _, col := range []string{"level_0", "index", "first_name", "last_name", "1"} {
		t.DropColumn(col)
	}

	cleanCardNumbers(t, "card_number")
	cleanNumeric(t, []string{"product_quantity"}, "")
	cleanUUIDs(t, "date_uuid", "user_uuid")

	out := dropIncompleteRows(t)
	logDropped("orders", raw.Len(), out.Len())
	return out
}

// DateTimes cleans the date event data. Month, day and year must be
// numeric, the time period must be one of the fixed set, the timestamp
// must parse as HH:MM:SS, and the date UUID must be valid.
func (c *Cleaner) DateTimes(raw *table.Table) *table.Table {
	t := raw.Clone()
	standardizeNulls(t)

	cleanNumeric(t, []string{"month", "day", "year"}, "")
	cleanCategories(t, "time_period", TimePeriods)
	cleanUUIDs(t, "date_uuid")

	for i := 0; i < t.Len(); i++ {
		v := t.Get(i, "timestamp")
		if table.IsNull(v) {
			continue
		}
		if _, err := time.Parse("15:04:05", v); err != nil {
			t.Set(i, "timestamp", table.Null)
		}
	}

	out := dropIncompleteRows(t)
	logDropped("date_times", raw.Len(), out.Len())
	return out
}
