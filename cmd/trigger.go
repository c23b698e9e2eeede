package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/monesting/notification-store/internal/app"
)

var TriggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Fire the dispatch trigger once",
	Long: `Call the dispatch service's push endpoint a single time and exit.

For deployments that schedule firings externally (a Kubernetes CronJob or a
systemd timer) and run the server with --trigger=false. Like the periodic
trigger, a failed call is logged and does not change the exit status.`,
	RunE: runTrigger,
}

func init() {
	TriggerCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (any format viper reads)")
	TriggerCmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	TriggerCmd.Flags().String("log-format", "json", "Log format: json or console")
	TriggerCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	cfg, lg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()

	cfg.Trigger.Enabled = true
	if err := cfg.Validate(); err != nil {
		lg.Error("invalid configuration", zap.Error(err))
		return err
	}

	trigger, err := app.NewTrigger(cfg, lg)
	if err != nil {
		return err
	}
	trigger.Fire(cmd.Context())
	return nil
}
