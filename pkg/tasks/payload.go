// Package tasks defines the run task payloads and queueing
package tasks

import (
	"fmt"
	"time"
)

// TypeModelRun is the task type for model render-and-execute runs
const TypeModelRun = "model:run"

// RunPayload represents the payload for a model run task. The sample
// window travels as its textual specification so a worker reconstructs
// the same compilation context the invocation was enqueued with.
type RunPayload struct {
	ModelName    string    `json:"model_name"`
	SampleWindow string    `json:"sample_window,omitempty"`
	Dialect      string    `json:"dialect,omitempty"`
	Policy       string    `json:"policy,omitempty"`
	InvocationID string    `json:"invocation_id"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// UniqueID returns a unique identifier for this task
func (p RunPayload) UniqueID() string {
	return fmt.Sprintf("%s:%s", p.ModelName, p.InvocationID)
}

// QueueName returns the queue name for this task payload
func (p RunPayload) QueueName() string {
	return p.ModelName
}
