package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/siftlabs/sift/pkg/clickhouse"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/observability"
	r "github.com/siftlabs/sift/pkg/redis"
	"github.com/siftlabs/sift/pkg/tasks"
	"github.com/siftlabs/sift/pkg/worker"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	runSample  string
	runDialect string
	runStrict  bool
	runOnce    bool
)

// runCmd starts the worker and enqueues model runs
//
//nolint:gochecknoglobals // Cobra commands are typically global
var runCmd = &cobra.Command{
	Use:   "run [model...]",
	Short: "Render and execute models against the engine",
	Long: `Start a worker that renders models and executes them against
ClickHouse. Named models (or all models when none are named) are
enqueued immediately; models declaring a schedule are additionally
enqueued on their cron schedule unless --once is set.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSample, "sample", "", `sample window, e.g. "3 day" or "12h"`)
	runCmd.Flags().StringVar(&runDialect, "dialect", "", "SQL dialect (defaults to the configured dialect)")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "fail when sampling hits a dataset with no event-time column")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "skip cron scheduling, process the enqueued runs and wait for shutdown")
}

func runRun(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}
	if redisErr := cfg.Redis.Validate(); redisErr != nil {
		return redisErr
	}

	dialectName := cfg.Dialect
	if runDialect != "" {
		dialectName = runDialect
	}

	if cfg.MetricsAddr != "" {
		observability.StartMetricsServer(logger, cfg.MetricsAddr)
	}

	cat, modelsSvc, err := loadProject(cfg)
	if err != nil {
		return err
	}

	chClient, err := clickhouse.NewClient(logger, &cfg.ClickHouse)
	if err != nil {
		return err
	}
	if startErr := chClient.Start(); startErr != nil {
		return startErr
	}
	defer func() {
		if stopErr := chClient.Stop(); stopErr != nil {
			logger.WithError(stopErr).Error("Failed to stop ClickHouse client")
		}
	}()

	asynqOpt, err := r.AsynqOptions(cfg.Redis.URL)
	if err != nil {
		return err
	}

	runOpts := worker.RunOptions{
		SampleWindow:     runSample,
		Dialect:          dialectName,
		Policy:           string(samplePolicy(runStrict)),
		DisableScheduler: runOnce,
	}

	workerSvc, err := worker.NewService(logger, &cfg.Worker, chClient, modelsSvc, cat, asynqOpt, runOpts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if startErr := workerSvc.Start(ctx); startErr != nil {
		return startErr
	}
	defer func() {
		if stopErr := workerSvc.Stop(); stopErr != nil {
			logger.WithError(stopErr).Error("Failed to stop worker service")
		}
	}()

	if err := enqueueRuns(args, modelsSvc.Models(), runSample, dialectName, runStrict, asynqOpt); err != nil {
		return err
	}

	// Run until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")

	return nil
}

// enqueueRuns enqueues one run per selected model under a fresh
// invocation ID
func enqueueRuns(args []string, all []*models.Model, sampleSpec, dialectName string, strict bool, asynqOpt asynq.RedisClientOpt) error {
	queue := tasks.NewQueueManager(&asynqOpt)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.WithError(err).Error("Failed to close queue manager")
		}
	}()

	selected := make(map[string]bool, len(args))
	for _, name := range args {
		selected[name] = true
	}

	invocationID := uuid.New().String()

	for _, model := range all {
		if len(args) > 0 && !selected[model.GetID()] {
			continue
		}

		payload := tasks.RunPayload{
			ModelName:    model.GetID(),
			SampleWindow: sampleSpec,
			Dialect:      dialectName,
			Policy:       string(samplePolicy(strict)),
			InvocationID: invocationID,
			EnqueuedAt:   time.Now().UTC(),
		}

		if err := queue.EnqueueRun(payload); err != nil {
			return err
		}

		logger.WithField("model", model.GetID()).Info("Enqueued model run")
	}

	return nil
}
