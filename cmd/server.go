package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/app"
	"github.com/monesting/notification-store/pkg/config"
	"github.com/monesting/notification-store/pkg/logger"
)

var (
	cfgFile string
	verbose bool
)

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the notification store server",
	Long: `Start the HTTP server that stores push subscriptions and notification
schedules, together with the periodic trigger that asks the dispatch service
to send due pushes.`,
	RunE: runServer,
}

func init() {
	flags := ServerCmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Configuration file path (any format viper reads)")
	flags.StringP("address", "a", ":8080", "Public listen address")
	flags.String("admin-address", ":9090", "Admin listen address for /metrics and /health (empty disables it)")
	flags.String("storage", "memory", "Storage backend: memory, file, redis or s3")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "json", "Log format: json or console")
	flags.String("schedule", "* * * * *", "Cron expression for the dispatch trigger")
	flags.Bool("trigger", true, "Run the periodic dispatch trigger")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig loads configuration for cmd and builds its logger
func loadConfig(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, lg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, lg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	if err := cfg.Validate(); err != nil {
		lg.Error("invalid configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := app.NewServer(ctx, cfg, lg)
	if err != nil {
		lg.Error("failed to initialize server", zap.Error(err))
		return err
	}

	lg.Info("notification store starting",
		zap.String("address", cfg.Server.Address),
		zap.String("admin_address", cfg.Admin.Address),
		zap.String("storage", cfg.Storage.Type),
		zap.Bool("trigger", cfg.Trigger.Enabled),
		zap.String("schedule", cfg.Trigger.Schedule),
	)

	if err := srv.Run(ctx); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
		return err
	}
	lg.Info("server stopped")
	return nil
}
