package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/app"
	"github.com/awfulsec/textnews/internal/clock/system"
	"github.com/awfulsec/textnews/internal/id/uuid"
	"github.com/awfulsec/textnews/internal/logging"
	"github.com/awfulsec/textnews/internal/news"
	"github.com/awfulsec/textnews/internal/progress"
	"github.com/awfulsec/textnews/internal/progress/sinks"
)

// newRunCmd creates and configures the 'run' subcommand, which executes
// one full aggregation pass.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs one aggregation pass",
		Long: `Scrapes the configured news sources, enriches every article through
the generation backend, and writes this run's edition record, markdown
document, and navigation indexes.`,

		RunE: runRunCommand,
	}
	return cmd
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := news.LoadConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runID, err := uuid.New().NewRawID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger := logging.L.With(zap.String("run_id", runID.String()))

	hub, err := buildProgressHub(logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if cerr := hub.Close(closeCtx); cerr != nil {
			logger.Warn("Failed to close progress hub", zap.Error(cerr))
		}
	}()

	pipeline, err := app.New(cfg, logger, system.Clock{}, hub, progress.UUIDToBytes(runID))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run pipeline: %w", err)
	}

	logger.Info("Run command finished.")
	return nil
}

func buildProgressHub(logger *zap.Logger) (*progress.Hub, error) {
	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("init prometheus sink: %w", err)
	}
	return progress.NewHub(progress.Config{Logger: logger}, sinks.NewLogSink(logger), promSink), nil
}
