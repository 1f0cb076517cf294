package tasks

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// QueueManager manages task queuing
type QueueManager struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewQueueManager creates a new queue manager
func NewQueueManager(redisOpt *asynq.RedisClientOpt) *QueueManager {
	return &QueueManager{
		client:    asynq.NewClient(*redisOpt),
		inspector: asynq.NewInspector(*redisOpt),
	}
}

// EnqueueRun enqueues a model run task on the model's queue
func (q *QueueManager) EnqueueRun(payload RunPayload, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeModelRun, data)

	defaultOpts := []asynq.Option{
		asynq.TaskID(payload.UniqueID()),
		asynq.Queue(payload.QueueName()),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Minute),
	}

	allOpts := defaultOpts
	allOpts = append(allOpts, opts...)

	_, err = q.client.Enqueue(task, allOpts...)

	return err
}

// IsTaskPendingOrRunning checks if a task is pending or running
func (q *QueueManager) IsTaskPendingOrRunning(payload RunPayload) (bool, error) {
	info, err := q.inspector.GetTaskInfo(payload.QueueName(), payload.UniqueID())
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, err
	}

	switch info.State {
	case asynq.TaskStatePending, asynq.TaskStateActive, asynq.TaskStateScheduled, asynq.TaskStateRetry:
		return true, nil
	default:
		return false, nil
	}
}

// Close closes the underlying asynq client and inspector
func (q *QueueManager) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}

	return q.inspector.Close()
}

func isNotFound(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "NOT FOUND") ||
		strings.Contains(msg, "queue not found") ||
		strings.Contains(msg, "task not found")
}
