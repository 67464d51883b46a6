// Package datagen generates raw source data for local end-to-end runs of
// the pipeline. Generated datasets deliberately include a share of
// corrupted rows so the cleaners have something to reject.
package datagen

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Faker provides fake data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{faker: gofakeit.New(uint64(time.Now().UnixNano()))}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{faker: gofakeit.New(seed)}
}

// FirstName generates a random first name.
func (f *Faker) FirstName() string {
	return f.faker.FirstName()
}

// LastName generates a random last name.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Phone generates a random phone number.
func (f *Faker) Phone() string {
	return f.faker.Phone()
}

// Street generates a random street address.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// UUID generates a random UUID string.
func (f *Faker) UUID() string {
	return uuid.NewString()
}

// Float64 generates a random float in [min, max).
func (f *Faker) Float64(min, max float64) float64 {
	return min + f.faker.Float64Range(0, 1)*(max-min)
}

// Int generates a random integer in [min, max].
func (f *Faker) Int(min, max int) int {
	return f.faker.Number(min, max)
}

// Bool generates a random boolean, true with probability p.
func (f *Faker) Bool(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// Choose picks a random element of the given values.
func Choose[T any](f *Faker, values []T) T {
	return values[f.Int(0, len(values)-1)]
}

// DateBetween generates a random date between two dates, formatted as
// YYYY-MM-DD.
func (f *Faker) DateBetween(start, end time.Time) string {
	return f.faker.DateRange(start, end).Format("2006-01-02")
}

// CardNumber generates a 16 digit card number.
func (f *Faker) CardNumber() string {
	return fmt.Sprintf("%d%015d", f.Int(3, 6), f.faker.Number(0, 999999999))
}

// StoreCode generates a store code like "CH-9C30C63A".
func (f *Faker) StoreCode() string {
	return fmt.Sprintf("%s-%08X",
		strings.ToUpper(f.faker.LetterN(2)), f.faker.Number(0, 0x7FFFFFFF))
}

// ProductCode generates a product code like "R7-3421589B".
func (f *Faker) ProductCode() string {
	return fmt.Sprintf("%s%d-%07d%s",
		strings.ToUpper(f.faker.Letter()), f.Int(0, 9),
		f.faker.Number(0, 9999999), f.faker.Letter())
}
