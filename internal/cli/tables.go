package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kgorkovskaya/multinational-retail-data-centralisation/internal/db"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables in the source database",
	Long: `List the public tables in the source database. Useful for
confirming connectivity and for locating the orders table, whose name
varies between source environments.`,
	RunE: runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateSource(); err != nil {
		return err
	}

	ctx := context.Background()
	conn, err := db.ConnectSingle(ctx, cfg.Source.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer conn.Close(ctx)

	tables, err := db.ListTables(ctx, conn)
	if err != nil {
		return err
	}

	for _, name := range tables {
		cmd.Println(name)
	}
	return nil
}
