package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mojocode/mojocode/internal/store"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop all application tables and migration state (non-production)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := requireDatabaseURL()
			if err != nil {
				return err
			}

			ctx := context.Background()
			conn, err := store.Open(ctx, url, log)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer conn.Close(ctx)

			fmt.Println("Dropping all tables...")
			if err := conn.Reset(ctx); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			fmt.Printf("Dropped %d table(s) and migration state; run `mojocode migrate` to recreate the schema\n",
				len(store.ResetTables))
			return nil
		},
	}
}
