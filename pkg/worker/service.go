package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/clickhouse"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/tasks"
	"github.com/sirupsen/logrus"
)

// Service defines the public interface for the worker service
type Service interface {
	// Start initializes and starts the worker service
	Start(ctx context.Context) error

	// Stop gracefully shuts down the worker service
	Stop() error
}

// RunOptions carries the invocation-wide settings scheduled runs are
// enqueued with
type RunOptions struct {
	SampleWindow string
	Dialect      string
	Policy       string
	// DisableScheduler skips cron registration for scheduled models
	DisableScheduler bool
}

// service encapsulates the worker application logic
type service struct {
	config *Config
	log    logrus.FieldLogger

	done chan struct{}
	wg   sync.WaitGroup

	chClient clickhouse.ClientInterface
	models   *models.Service
	catalog  catalog.Resolver
	asynqOpt asynq.RedisClientOpt
	runOpts  RunOptions

	server *asynq.Server
	queue  *tasks.QueueManager
	cron   *cron.Cron
}

// NewService creates a new worker service
func NewService(log logrus.FieldLogger, cfg *Config, chClient clickhouse.ClientInterface, modelsService *models.Service, catalogSvc catalog.Resolver, asynqOpt asynq.RedisClientOpt, runOpts RunOptions) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &service{
		log:      log.WithField("service", "worker"),
		config:   cfg,
		done:     make(chan struct{}),
		chClient: chClient,
		models:   modelsService,
		catalog:  catalogSvc,
		asynqOpt: asynqOpt,
		runOpts:  runOpts,
	}, nil
}

// Start initializes and starts the worker service
func (s *service) Start(_ context.Context) error {
	executor := NewModelExecutor(s.log, s.chClient, s.models, s.catalog)

	modelList := s.models.Models()

	// One queue per model so a slow model cannot starve the rest
	queues := make(map[string]int, len(modelList))
	for _, model := range modelList {
		queues[model.GetID()] = 10
	}

	s.log.WithFields(logrus.Fields{
		"models":      len(modelList),
		"concurrency": s.config.Concurrency,
	}).Info("Starting worker service")

	srv := asynq.NewServer(s.asynqOpt, asynq.Config{
		Concurrency:     s.config.Concurrency,
		Queues:          queues,
		ShutdownTimeout: time.Duration(s.config.ShutdownTimeout) * time.Second,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeModelRun, executor.HandleRun)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if runErr := srv.Run(mux); runErr != nil {
			s.log.WithError(runErr).Error("Worker server stopped with error")
		}
	}()

	s.server = srv
	s.queue = tasks.NewQueueManager(&s.asynqOpt)

	if err := s.startScheduler(modelList); err != nil {
		return err
	}

	s.log.Info("Worker service started successfully")

	return nil
}

// startScheduler registers cron entries for models declaring a schedule
func (s *service) startScheduler(modelList []*models.Model) error {
	if s.runOpts.DisableScheduler {
		return nil
	}

	scheduled := 0

	c := cron.New()

	for _, model := range modelList {
		if model.Schedule == "" {
			continue
		}

		name := model.GetID()
		if _, err := c.AddFunc(model.Schedule, func() {
			s.enqueueScheduled(name)
		}); err != nil {
			return fmt.Errorf("failed to schedule model %s: %w", name, err)
		}

		scheduled++
	}

	if scheduled == 0 {
		return nil
	}

	c.Start()
	s.cron = c

	s.log.WithField("scheduled", scheduled).Info("Model scheduler started")

	return nil
}

// enqueueScheduled enqueues one run for a scheduled model, skipping it
// when a previous scheduled run is still in flight. Scheduled runs share
// a stable invocation ID so the task ID dedupes them.
func (s *service) enqueueScheduled(name string) {
	payload := tasks.RunPayload{
		ModelName:    name,
		SampleWindow: s.runOpts.SampleWindow,
		Dialect:      s.runOpts.Dialect,
		Policy:       s.runOpts.Policy,
		InvocationID: "scheduled",
		EnqueuedAt:   time.Now().UTC(),
	}

	pending, err := s.queue.IsTaskPendingOrRunning(payload)
	if err != nil {
		s.log.WithError(err).WithField("model", name).Error("Failed to inspect queue")
		return
	}

	if pending {
		s.log.WithField("model", name).Debug("Skipping scheduled run, task already queued")
		return
	}

	if err := s.queue.EnqueueRun(payload); err != nil {
		s.log.WithError(err).WithField("model", name).Error("Failed to enqueue scheduled run")
		return
	}

	s.log.WithField("model", name).Debug("Enqueued scheduled run")
}

// Stop gracefully shuts down the worker service
func (s *service) Stop() error {
	close(s.done)

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.server != nil {
		s.server.Shutdown()
	}

	if s.queue != nil {
		if err := s.queue.Close(); err != nil {
			s.log.WithError(err).Error("Failed to close queue manager")
		}
	}

	s.wg.Wait()

	s.log.Info("Worker service stopped")

	return nil
}
