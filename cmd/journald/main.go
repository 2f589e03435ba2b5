// Package main is the journald server and its maintenance commands.
package main

import (
	"context"
	"journald/internal/structures"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var flags structures.CliFlags

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "journald",
	Short: "Journal proxy server with daily AI summaries",
	Long: `journald proxies the journal frontend to the spreadsheet backend, generates
daily summaries with an LLM and mails them to users each morning in their own
timezone.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config file")
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "apikey.env", "env file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "log to the console at debug level")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(checkEmailCmd)
	rootCmd.AddCommand(journalCmd)
}
