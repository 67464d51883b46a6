package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/reports"
)

var reportQuery string

var reportCmd = &cobra.Command{
	Use:   "report [query]",
	Short: "Run the analytical query catalog against the star schema",
	Long: `Run the catalog of analytical queries against the finalized star
schema and print the results. By default every query in the catalog
runs in order; naming a query restricts the report to that one.

Example:
  retail-etl report
  retail-etl report sales-by-store-type`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportQuery, "query", "",
		"run a single catalog query by name (see 'retail-etl queries')")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateTarget(); err != nil {
		return err
	}

	name := reportQuery
	if len(args) > 0 {
		name = args[0]
	}

	queries := reports.Catalog
	if name != "" {
		q, err := reports.Get(name)
		if err != nil {
			return err
		}
		queries = []reports.Query{q}
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Target.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to target database: %w", err)
	}
	defer pool.Close()

	for _, q := range queries {
		result, err := reports.Run(ctx, pool, q)
		if err != nil {
			return err
		}
		if err := result.Write(os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List the analytical queries in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available queries:")
		cmd.Println()
		for _, q := range reports.Catalog {
			cmd.Printf("  %-22s %s\n", q.Name, q.Description)
		}
		cmd.Println()
		cmd.Println("Use 'retail-etl report --query <name>' to run one.")
	},
}
