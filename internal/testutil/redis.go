// Package testutil provides shared test helpers
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

// NewAsynqOpt starts an in-memory Redis for queue tests and returns
// connection options pointing at it. The server is closed when the
// test completes.
func NewAsynqOpt(t *testing.T) asynq.RedisClientOpt {
	t.Helper()

	mr := miniredis.RunT(t)

	return asynq.RedisClientOpt{Addr: mr.Addr()}
}
