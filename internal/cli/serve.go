package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mojocode/mojocode/internal/config"
	"github.com/mojocode/mojocode/internal/github"
	"github.com/mojocode/mojocode/internal/logging"
	"github.com/mojocode/mojocode/internal/server"
	"github.com/mojocode/mojocode/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MojoCode API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// Honour the configured console style once config is loaded.
			log = logging.NewStyled(cfg.Logging.Level, cfg.Logging.ConsoleStyle)

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := []server.ServerOption{
				server.WithRepoLister(github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, log)),
			}

			if cfg.Database.URL != "" {
				pool, err := store.OpenPool(ctx, cfg.Database.URL, log)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer pool.Close()
				opts = append(opts, server.WithTaskStore(pool))
				log.Info().Msg("task store enabled")
			} else {
				log.Warn().Msg("no database configured, submissions will not be persisted")
			}

			srv := server.New(cfg, log, opts...)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}
