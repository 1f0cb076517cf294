package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPayloadIdentity(t *testing.T) {
	p := RunPayload{
		ModelName:    "top_orders",
		SampleWindow: "3 day",
		InvocationID: "8a6d9c2e",
	}

	assert.Equal(t, "top_orders:8a6d9c2e", p.UniqueID())
	assert.Equal(t, "top_orders", p.QueueName())
}

func TestRunPayloadRoundTrip(t *testing.T) {
	p := RunPayload{
		ModelName:    "top_orders",
		SampleWindow: "3 day",
		Dialect:      "clickhouse",
		Policy:       "warn",
		InvocationID: "8a6d9c2e",
		EnqueuedAt:   time.Now().UTC().Truncate(time.Second),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded RunPayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestRunPayloadOmitsEmptyWindow(t *testing.T) {
	p := RunPayload{ModelName: "top_orders", InvocationID: "x"}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sample_window")
}
