// Package worker renders and executes queued model runs
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/clickhouse"
	"github.com/siftlabs/sift/pkg/compiler"
	"github.com/siftlabs/sift/pkg/dialect"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/observability"
	"github.com/siftlabs/sift/pkg/sample"
	"github.com/siftlabs/sift/pkg/tasks"
	"github.com/sirupsen/logrus"
)

// ModelExecutor renders a queued model under the invocation's
// compilation context and executes the result against ClickHouse
type ModelExecutor struct {
	log      logrus.FieldLogger
	chClient clickhouse.ClientInterface
	models   *models.Service
	catalog  catalog.Resolver
}

// NewModelExecutor creates a new model executor
func NewModelExecutor(log logrus.FieldLogger, chClient clickhouse.ClientInterface, modelsService *models.Service, catalogSvc catalog.Resolver) *ModelExecutor {
	return &ModelExecutor{
		log:      log.WithField("component", "executor"),
		chClient: chClient,
		models:   modelsService,
		catalog:  catalogSvc,
	}
}

// HandleRun is the asynq handler for model run tasks
func (e *ModelExecutor) HandleRun(ctx context.Context, task *asynq.Task) error {
	var payload tasks.RunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode run payload: %w", err)
	}

	return e.Execute(ctx, payload)
}

// Execute runs a single model render-and-execute cycle
func (e *ModelExecutor) Execute(ctx context.Context, payload tasks.RunPayload) error {
	start := time.Now()

	log := e.log.WithFields(logrus.Fields{
		"model":         payload.ModelName,
		"invocation_id": payload.InvocationID,
		"sample":        payload.SampleWindow,
	})

	comp, policy, err := e.buildCompiler(payload)
	if err != nil {
		return err
	}

	sql, err := e.models.Render(payload.ModelName, comp, policy)
	if err != nil {
		observability.RunsTotal.WithLabelValues(payload.ModelName, "failed").Inc()
		return fmt.Errorf("failed to render model %s: %w", payload.ModelName, err)
	}

	log.Info("Executing model")

	if _, err := e.chClient.Execute(ctx, sql); err != nil {
		observability.RunsTotal.WithLabelValues(payload.ModelName, "failed").Inc()
		observability.RunDuration.WithLabelValues(payload.ModelName, "failed").Observe(time.Since(start).Seconds())

		return fmt.Errorf("failed to execute model %s: %w", payload.ModelName, err)
	}

	observability.RunsTotal.WithLabelValues(payload.ModelName, "success").Inc()
	observability.RunDuration.WithLabelValues(payload.ModelName, "success").Observe(time.Since(start).Seconds())

	log.WithField("duration", time.Since(start)).Info("Model executed")

	return nil
}

// buildCompiler reconstructs the compilation context a payload was
// enqueued with
func (e *ModelExecutor) buildCompiler(payload tasks.RunPayload) (*compiler.Compiler, models.SamplePolicy, error) {
	var window *sample.Window

	if payload.SampleWindow != "" {
		parsed, err := sample.Parse(payload.SampleWindow)
		if err != nil {
			return nil, "", fmt.Errorf("invalid sample window in payload: %w", err)
		}
		window = parsed
	}

	d, err := dialect.New(payload.Dialect)
	if err != nil {
		return nil, "", err
	}

	policy := models.SamplePolicy(payload.Policy)
	if policy == "" {
		policy = models.SamplePolicyWarn
	}

	return compiler.NewCompiler(e.catalog, compiler.NewContext(window, d)), policy, nil
}
