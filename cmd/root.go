// Package cmd defines and implements the CLI commands for the textnews
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/logging"
	"github.com/awfulsec/textnews/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textnews",
		Short: "A text-first news aggregator with generation-backed enrichment.",
		Long: `textnews scrapes text-only news sites, enriches every article
through a local generation backend, and publishes the results as JSON
records, markdown editions, and navigation indexes.`,
	}

	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/textnews, $HOME/.textnews)")

	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := logging.InitLogger(viper.GetBool("log.development")); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}
