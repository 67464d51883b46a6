package datagen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
)

// batchSize is the number of rows per batch insert.
const batchSize = 1000

var seedCountries = []struct {
	Name string
	Code string
}{
	{"Germany", "DE"},
	{"United Kingdom", "GB"},
	{"United States", "US"},
}

const createLegacyUsersSQL = `
CREATE TABLE IF NOT EXISTS legacy_users (
    index         BIGINT,
    first_name    TEXT,
    last_name     TEXT,
    date_of_birth TEXT,
    company       TEXT,
    email_address TEXT,
    address       TEXT,
    country       TEXT,
    country_code  TEXT,
    phone_number  TEXT,
    join_date     TEXT,
    user_uuid     TEXT
)`

const createOrdersSQL = `
CREATE TABLE IF NOT EXISTS orders_table (
    level_0          BIGINT,
    index            BIGINT,
    date_uuid        TEXT,
    first_name       TEXT,
    last_name        TEXT,
    user_uuid        TEXT,
    card_number      TEXT,
    store_code       TEXT,
    product_code     TEXT,
    "1"              BIGINT,
    product_quantity BIGINT
)`

// Seeder populates a source database with raw legacy data, including a
// configurable share of corrupted rows for the cleaners to reject.
type Seeder struct {
	faker *Faker
	db    db.Querier

	// CorruptionRate is the probability that a generated row carries a
	// deliberately invalid value.
	CorruptionRate float64
}

// NewSeeder creates a Seeder writing through the given connection.
func NewSeeder(q db.Querier, faker *Faker, corruptionRate float64) *Seeder {
	return &Seeder{faker: faker, db: q, CorruptionRate: corruptionRate}
}

// Seed creates and populates legacy_users and orders_table.
func (s *Seeder) Seed(ctx context.Context, numUsers, numOrders int) error {
	users, err := s.seedUsers(ctx, numUsers)
	if err != nil {
		return fmt.Errorf("failed to seed legacy_users: %w", err)
	}
	if err := s.seedOrders(ctx, users, numOrders); err != nil {
		return fmt.Errorf("failed to seed orders_table: %w", err)
	}
	return nil
}

// seededUser carries the identifiers orders reference.
type seededUser struct {
	UUID       string
	CardNumber string
	FirstName  string
	LastName   string
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]seededUser, error) {
	if _, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS legacy_users`); err != nil {
		return nil, err
	}
	if _, err := s.db.Exec(ctx, createLegacyUsersSQL); err != nil {
		return nil, err
	}

	// Fixed date ranges keep seeded runs reproducible.
	dobStart := time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)
	dobEnd := time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)
	joinStart := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	joinEnd := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)

	users := make([]seededUser, 0, n)
	batch := make([]string, 0, batchSize)
	for i := 0; i < n; i++ {
		country := Choose(s.faker, seedCountries)
		u := seededUser{
			UUID:       s.faker.UUID(),
			CardNumber: s.faker.CardNumber(),
			FirstName:  s.faker.FirstName(),
			LastName:   s.faker.LastName(),
		}
		row := []string{
			fmt.Sprint(i),
			quote(u.FirstName),
			quote(u.LastName),
			quote(s.faker.DateBetween(dobStart, dobEnd)),
			quote(s.faker.Company()),
			quote(s.faker.Email()),
			quote(s.faker.Street()),
			quote(country.Name),
			quote(country.Code),
			quote(s.faker.Phone()),
			quote(s.faker.DateBetween(joinStart, joinEnd)),
			quote(u.UUID),
		}
		if s.faker.Bool(s.CorruptionRate) {
			s.corruptUserRow(row)
		} else {
			users = append(users, u)
		}
		batch = append(batch, "("+strings.Join(row, ", ")+")")

		if len(batch) >= batchSize {
			if err := s.insert(ctx, "legacy_users", batch); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if err := s.insert(ctx, "legacy_users", batch); err != nil {
		return nil, err
	}

	logging.Info().
		Int("rows", n).
		Int("valid", len(users)).
		Msg("Seeded legacy_users")
	return users, nil
}

// corruptUserRow overwrites one field with an invalid value, mirroring
// the defects observed in the real legacy data.
func (s *Seeder) corruptUserRow(row []string) {
	switch s.faker.Int(0, 4) {
	case 0:
		row[1] = quote("NULL") // first_name
	case 1:
		row[2] = quote(fmt.Sprintf("%s%d", s.faker.LastName(), s.faker.Int(0, 99)))
	case 2:
		row[3] = quote(strings.ToUpper(s.faker.faker.LetterN(10))) // date_of_birth
	case 3:
		row[8] = quote("GGB") // country_code typo, repaired by the cleaner
	case 4:
		row[5] = quote("not-an-email") // email_address
	}
}

func (s *Seeder) seedOrders(ctx context.Context, users []seededUser, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no valid users to reference")
	}

	if _, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS orders_table`); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, createOrdersSQL); err != nil {
		return err
	}

	batch := make([]string, 0, batchSize)
	for i := 0; i < n; i++ {
		u := Choose(s.faker, users)
		row := []string{
			fmt.Sprint(i),
			fmt.Sprint(i),
			quote(s.faker.UUID()),
			quote(u.FirstName),
			quote(u.LastName),
			quote(u.UUID),
			quote(u.CardNumber),
			quote(s.faker.StoreCode()),
			quote(s.faker.ProductCode()),
			"NULL",
			fmt.Sprint(s.faker.Int(1, 12)),
		}
		if s.faker.Bool(s.CorruptionRate) {
			s.corruptOrderRow(row)
		}
		batch = append(batch, "("+strings.Join(row, ", ")+")")

		if len(batch) >= batchSize {
			if err := s.insert(ctx, "orders_table", batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := s.insert(ctx, "orders_table", batch); err != nil {
		return err
	}

	logging.Info().Int("rows", n).Msg("Seeded orders_table")
	return nil
}

func (s *Seeder) corruptOrderRow(row []string) {
	switch s.faker.Int(0, 2) {
	case 0:
		row[6] = quote(fmt.Sprint(s.faker.Int(100, 9999))) // short card number
	case 1:
		row[2] = quote("not-a-uuid") // date_uuid
	case 2:
		row[10] = "NULL" // product_quantity
	}
}

func (s *Seeder) insert(ctx context.Context, tbl string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	var columns string
	if tbl == "orders_table" {
		columns = `(level_0, index, date_uuid, first_name, last_name, user_uuid,
            card_number, store_code, product_code, "1", product_quantity)`
	} else {
		columns = `(index, first_name, last_name, date_of_birth, company,
            email_address, address, country, country_code, phone_number,
            join_date, user_uuid)`
	}
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s",
		tbl, columns, strings.Join(values, ", "))
	_, err := s.db.Exec(ctx, sql)
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
