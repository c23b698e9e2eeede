package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/monesting/notification-store/cmd"
)

var rootCmd = &cobra.Command{
	Use:          "notification-store",
	Short:        "Notification Store Server",
	Long:         "Stores push subscriptions and notification schedules and periodically triggers the dispatch service",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.ServerCmd)
	rootCmd.AddCommand(cmd.TriggerCmd)
	rootCmd.AddCommand(cmd.HelpersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
