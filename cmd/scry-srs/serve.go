package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/platform/postgres"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		log.Info("server configuration loaded",
			slog.Int("port", cfg.Server.Port),
			slog.String("log_level", cfg.Server.LogLevel),
			slog.Int("day_cutoff_hour", cfg.Scheduler.DayCutoffHour))

		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}

		if migrateOnStart {
			if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
				_ = db.Close()
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
		}

		app, err := newApplication(cfg, log, db)
		if err != nil {
			_ = db.Close()
			return err
		}

		return app.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}
