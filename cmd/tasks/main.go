// Package main implements the tasks CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage todos through a todo API",
	Long: `Manage todos through a todo API.

The API base URL comes from --api-url, TASKLIST_API_BASE_URL, a .env file,
./tasklist.toml or ~/.config/tasklist/config.toml, in that order.`,
	SilenceUsage: true,
}

var (
	rootAPIURL    string
	rootConfig    string
	rootLogLevel  string
	rootLogFormat string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootAPIURL, "api-url", "", "Todo API base URL, e.g. http://localhost:3000/api/todos")
	flags.StringVar(&rootConfig, "config", "", "Config file (default ./tasklist.toml)")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&rootLogFormat, "log-format", "", "Log format (text, logfmt, json)")
}
