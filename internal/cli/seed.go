package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/datagen"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/logging"
)

var (
	seedUsers  int
	seedOrders int
	seedSeed   uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the source database with generated legacy data",
	Long: `Create and populate legacy_users and orders_table in the source
database with generated data, including a configurable share of
corrupted rows for the cleaners to reject. Existing copies of the two
tables are dropped first.

Generated orders carry store, product and card codes drawn at random,
so they will not match the dimensions extracted from the API, PDF, S3
and JSON sources. Run the pipeline against a seeded database with the
fact table's key checks left out:

  retail-etl run --only users,orders --no-finalize

Example:
  retail-etl seed
  retail-etl seed --users 5000 --orders 40000 --seed 42`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 0,
		"number of legacy user rows to generate")
	seedCmd.Flags().IntVar(&seedOrders, "orders", 0,
		"number of order rows to generate")
	seedCmd.Flags().Uint64Var(&seedSeed, "seed", 0,
		"random seed for reproducible data (0 = random)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedUsers > 0 {
		cfg.Seed.Users = seedUsers
	}
	if seedOrders > 0 {
		cfg.Seed.Orders = seedOrders
	}

	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	faker := datagen.NewFaker()
	if seedSeed != 0 {
		faker = datagen.NewFakerWithSeed(seedSeed)
	}

	ctx := context.Background()
	conn, err := db.ConnectSingle(ctx, cfg.Source.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer conn.Close(ctx)

	logging.Info().
		Int("users", cfg.Seed.Users).
		Int("orders", cfg.Seed.Orders).
		Float64("corruption_rate", cfg.Seed.CorruptionRate).
		Msg("Seeding source database")

	seeder := datagen.NewSeeder(conn, faker, cfg.Seed.CorruptionRate)
	if err := seeder.Seed(ctx, cfg.Seed.Users, cfg.Seed.Orders); err != nil {
		return err
	}

	logging.Info().Msg("Source database seeded")
	return nil
}
