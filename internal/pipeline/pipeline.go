// Package pipeline sequences the extract, clean and load stages and
// enforces the one ordering constraint of the star schema: every
// dimension must be loaded before the fact table.
package pipeline

import (
	"context"
	"errors"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

// Loader writes a cleaned table to the target database.
type Loader interface {
	Replace(ctx context.Context, t *table.Table, name string) error
}

// Dataset describes one source-to-table pipeline stage.
type Dataset struct {
	// Name identifies the dataset in logs and errors.
	Name string

	// Target is the destination table name.
	Target string

	// Fact marks the dataset as the fact table; it is only loaded once
	// every dimension has loaded successfully.
	Fact bool

	// Extract materializes the raw source data.
	Extract func(ctx context.Context) (*table.Table, error)

	// Clean applies the dataset's validation rules.
	Clean func(*table.Table) *table.Table
}

// Run processes every dataset in order. A failing dimension aborts only
// its own contribution; independent dimensions still run. Fact datasets
// are skipped if any dimension failed, because referential integrity
// could not hold. The returned error joins all failures.
func Run(ctx context.Context, datasets []Dataset, loader Loader) error {
	var failures []error

	dimensionFailed := false
	for _, d := range datasets {
		if d.Fact {
			continue
		}
		if err := runOne(ctx, d, loader); err != nil {
			failures = append(failures, err)
			dimensionFailed = true
		}
	}

	for _, d := range datasets {
		if !d.Fact {
			continue
		}
		if dimensionFailed {
			logging.Error().
				Str("dataset", d.Name).
				Msg("Skipping fact table; a dimension failed to load")
			failures = append(failures,
				&SchemaError{Table: d.Target,
					Err: errors.New("dimensions incomplete, fact table not loaded")})
			continue
		}
		if err := runOne(ctx, d, loader); err != nil {
			failures = append(failures, err)
		}
	}

	return errors.Join(failures...)
}

func runOne(ctx context.Context, d Dataset, loader Loader) error {
	logging.Info().
		Str("dataset", d.Name).
		Str("target", d.Target).
		Msg("Processing dataset")

	raw, err := d.Extract(ctx)
	if err != nil {
		err = &SourceError{Source: d.Name, Err: err}
		logging.Error().Err(err).Str("dataset", d.Name).Msg("Extraction failed")
		return err
	}

	cleaned := d.Clean(raw)

	if err := loader.Replace(ctx, cleaned, d.Target); err != nil {
		logging.Error().Err(err).Str("dataset", d.Name).Msg("Load failed")
		return err
	}
	return nil
}
