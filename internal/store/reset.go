package store

import (
	"context"
	"fmt"
)

// ResetTables is the fixed, explicitly enumerated set of application
// tables the reset tool drops, in drop order.
var ResetTables = []string{
	"task_connectors",
	"task_events",
	"task_logs",
	"tasks",
	"connectors",
	"api_keys",
	"user_preferences",
	"verifications",
	"accounts",
	"sessions",
	"users",
}

// Reset drops every application table with a cascading drop, tolerating
// absent tables, then drops the migration bookkeeping schema so the next
// migration run starts clean. Strictly a non-production tool.
func (c *Conn) Reset(ctx context.Context) error {
	for _, table := range ResetTables {
		c.log.Info().Str("table", table).Msg("dropping table")
		if _, err := c.pg.Exec(ctx,
			fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table),
		); err != nil {
			return fmt.Errorf("dropping table %s: %w", table, err)
		}
	}

	c.log.Info().Str("schema", bookkeepingSchema).Msg("dropping bookkeeping schema")
	if _, err := c.pg.Exec(ctx,
		fmt.Sprintf(`DROP SCHEMA IF EXISTS %s CASCADE`, bookkeepingSchema),
	); err != nil {
		return fmt.Errorf("dropping schema %s: %w", bookkeepingSchema, err)
	}
	return nil
}
