package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/clean"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/config"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/extract"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/load"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/pipeline"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/table"
)

var (
	runSkip       []string
	runOnly       []string
	runNoFinalize bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full extract, clean and load pipeline",
	Long: `Run the full pipeline: extract every source dataset, clean it,
and load it into the target database. Dimension tables are loaded
before the orders fact table; if any dimension fails, the fact table
is skipped so referential integrity still holds. After loading, the
schema is finalized with column type casts, primary keys and foreign
keys unless --no-finalize is given.

Datasets: users, cards, stores, products, date_times, orders.

Example:
  retail-etl run
  retail-etl run --only users,orders --no-finalize
  retail-etl run --skip cards`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringSliceVar(&runSkip, "skip", nil,
		"datasets to skip (comma separated)")
	runCmd.Flags().StringSliceVar(&runOnly, "only", nil,
		"datasets to run, skipping all others (comma separated)")
	runCmd.Flags().BoolVar(&runNoFinalize, "no-finalize", false,
		"load tables but do not cast types or declare keys")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	}()

	source, err := db.ConnectSingle(ctx, cfg.Source.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer source.Close(ctx)

	target, err := db.Connect(ctx, cfg.Target.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	defer target.Close()

	datasets, err := selectDatasets(buildDatasets(cfg, source), runOnly, runSkip)
	if err != nil {
		return err
	}

	logging.Info().
		Int("datasets", len(datasets)).
		Msg("Starting pipeline")

	if err := pipeline.Run(ctx, datasets, load.New(target)); err != nil {
		return err
	}

	if runNoFinalize {
		logging.Info().Msg("Pipeline complete; schema finalization skipped")
		return nil
	}

	if err := load.Finalize(ctx, target); err != nil {
		return err
	}
	logging.Info().Msg("Pipeline complete")
	return nil
}

// buildDatasets wires every source extractor and cleaner to its target
// table. Connections to remote sources are established lazily inside
// each Extract closure so skipped datasets cost nothing.
func buildDatasets(cfg *config.Config, source db.Querier) []pipeline.Dataset {
	cleaner := clean.New()
	storeAPI := extract.NewStoreAPI(cfg.API)

	return []pipeline.Dataset{
		{
			Name:   "users",
			Target: "dim_users",
			Extract: func(ctx context.Context) (*table.Table, error) {
				return extract.Table(ctx, source, "legacy_users")
			},
			Clean: cleaner.Users,
		},
		{
			Name:   "cards",
			Target: "dim_card_details",
			Extract: func(ctx context.Context) (*table.Table, error) {
				return extract.CardDetails(ctx, cfg.PDF.URL)
			},
			Clean: cleaner.Cards,
		},
		{
			Name:   "stores",
			Target: "dim_store_details",
			Extract: func(ctx context.Context) (*table.Table, error) {
				numStores, err := storeAPI.NumberOfStores(ctx)
				if err != nil {
					return nil, err
				}
				return storeAPI.Stores(ctx, numStores)
			},
			Clean: cleaner.Stores,
		},
		{
			Name:   "products",
			Target: "dim_products",
			Extract: func(ctx context.Context) (*table.Table, error) {
				client, err := extract.NewS3Client(ctx, cfg.S3)
				if err != nil {
					return nil, err
				}
				return extract.ProductsCSV(ctx, client, cfg.S3.Bucket, cfg.S3.Key)
			},
			Clean: cleaner.Products,
		},
		{
			Name:   "date_times",
			Target: "dim_date_times",
			Extract: func(ctx context.Context) (*table.Table, error) {
				return extract.DateEvents(ctx, cfg.JSON.URL)
			},
			Clean: cleaner.DateTimes,
		},
		{
			Name:   "orders",
			Target: "orders_table",
			Fact:   true,
			Extract: func(ctx context.Context) (*table.Table, error) {
				name, err := extract.FindOrdersTable(ctx, source)
				if err != nil {
					return nil, err
				}
				return extract.Table(ctx, source, name)
			},
			Clean: cleaner.Orders,
		},
	}
}

// selectDatasets applies the --only and --skip flags. Unknown dataset
// names are an error rather than a silent no-op.
func selectDatasets(datasets []pipeline.Dataset, only, skip []string) ([]pipeline.Dataset, error) {
	known := make(map[string]bool, len(datasets))
	for _, d := range datasets {
		known[d.Name] = true
	}
	for _, name := range append(append([]string{}, only...), skip...) {
		if !known[name] {
			return nil, fmt.Errorf("unknown dataset: %s", name)
		}
	}

	onlySet := make(map[string]bool, len(only))
	for _, name := range only {
		onlySet[name] = true
	}
	skipSet := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipSet[name] = true
	}

	var selected []pipeline.Dataset
	for _, d := range datasets {
		if len(onlySet) > 0 && !onlySet[d.Name] {
			continue
		}
		if skipSet[d.Name] {
			continue
		}
		selected = append(selected, d)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no datasets selected")
	}
	return selected, nil
}
