package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mojocode/mojocode/internal/store"
)

// requireDatabaseURL reads the connection string the migration tooling
// needs, failing fast with a descriptive error when it is absent.
func requireDatabaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return url, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
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
			// The connection is released in all cases, including
			// migration failure.
			defer conn.Close(ctx)

			fmt.Println("Running migrations...")
			applied, err := conn.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			if applied == 0 {
				fmt.Println("No pending migrations, schema is up to date")
			} else {
				fmt.Printf("Applied %d migration(s)\n", applied)
			}
			return nil
		},
	}
}
