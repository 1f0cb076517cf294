package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/siftlabs/sift/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *QueueManager {
	t.Helper()

	opt := testutil.NewAsynqOpt(t)

	qm := NewQueueManager(&opt)
	t.Cleanup(func() {
		if err := qm.Close(); err != nil {
			t.Logf("failed to close queue manager: %v", err)
		}
	})

	return qm
}

func TestEnqueueRun(t *testing.T) {
	qm := newTestQueue(t)

	payload := RunPayload{
		ModelName:    "top_orders",
		SampleWindow: "3 day",
		InvocationID: "scheduled",
		EnqueuedAt:   time.Now().UTC(),
	}

	require.NoError(t, qm.EnqueueRun(payload))

	pending, err := qm.IsTaskPendingOrRunning(payload)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestEnqueueRunDeduplicates(t *testing.T) {
	qm := newTestQueue(t)

	payload := RunPayload{
		ModelName:    "top_orders",
		InvocationID: "scheduled",
		EnqueuedAt:   time.Now().UTC(),
	}

	require.NoError(t, qm.EnqueueRun(payload))

	err := qm.EnqueueRun(payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.ErrTaskIDConflict)
}

func TestIsTaskPendingOrRunningUnknownTask(t *testing.T) {
	qm := newTestQueue(t)

	pending, err := qm.IsTaskPendingOrRunning(RunPayload{
		ModelName:    "never_enqueued",
		InvocationID: "x",
	})
	require.NoError(t, err)
	assert.False(t, pending)
}
