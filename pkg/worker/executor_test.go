package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/compiler"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/tasks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records executed statements
type fakeClient struct {
	executed []string
	err      error
}

func (f *fakeClient) QueryOne(_ context.Context, _ string, _ interface{}) error { return nil }
func (f *fakeClient) Start() error                                              { return nil }
func (f *fakeClient) Stop() error                                               { return nil }

func (f *fakeClient) Execute(_ context.Context, query string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.executed = append(f.executed, query)

	return nil, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

func newTestProject(t *testing.T) (*models.Service, *catalog.Service) {
	t.Helper()

	log := testLogger()

	cat, err := catalog.NewService(log, &catalog.Config{DefaultDatabase: "my_db"})
	require.NoError(t, err)
	require.NoError(t, cat.Add(&catalog.Dataset{
		Table:     "fct_orders",
		EventTime: "order_at",
	}))
	require.NoError(t, cat.Add(&catalog.Dataset{
		Table: "dim_customers",
	}))

	svc, err := models.NewService(log, &models.Config{DefaultDatabase: "analytics"}, cat)
	require.NoError(t, err)
	require.NoError(t, svc.AddModel(&models.Model{
		ModelConfig: models.ModelConfig{Name: "top_orders"},
		Content:     `INSERT INTO {{ .self.database }}.{{ .self.table }} SELECT * FROM {{ ref "fct_orders" }}`,
	}))
	require.NoError(t, svc.AddModel(&models.Model{
		ModelConfig: models.ModelConfig{Name: "customer_view"},
		Content:     `SELECT * FROM {{ ref "dim_customers" }}`,
	}))
	require.NoError(t, svc.BuildGraph())

	return svc, cat
}

func TestExecuteSampled(t *testing.T) {
	svc, cat := newTestProject(t)

	ch := &fakeClient{}
	executor := NewModelExecutor(testLogger(), ch, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "top_orders",
		SampleWindow: "3 day",
		Dialect:      "clickhouse",
		Policy:       string(models.SamplePolicyStrict),
		InvocationID: "test",
	})
	require.NoError(t, err)

	require.Len(t, ch.executed, 1)
	assert.Contains(t, ch.executed[0], "INSERT INTO analytics.top_orders")
	assert.Contains(t, ch.executed[0], "order_at > today() - INTERVAL 3 DAY")
}

func TestExecuteUnsampled(t *testing.T) {
	svc, cat := newTestProject(t)

	ch := &fakeClient{}
	executor := NewModelExecutor(testLogger(), ch, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "top_orders",
		InvocationID: "test",
	})
	require.NoError(t, err)

	require.Len(t, ch.executed, 1)
	assert.NotContains(t, ch.executed[0], "WHERE")
}

func TestExecuteStrictPolicyFails(t *testing.T) {
	svc, cat := newTestProject(t)

	ch := &fakeClient{}
	executor := NewModelExecutor(testLogger(), ch, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "customer_view",
		SampleWindow: "3 day",
		Policy:       string(models.SamplePolicyStrict),
		InvocationID: "test",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, compiler.ErrMissingEventTime)
	assert.Empty(t, ch.executed)
}

func TestExecuteWarnPolicySkips(t *testing.T) {
	svc, cat := newTestProject(t)

	ch := &fakeClient{}
	executor := NewModelExecutor(testLogger(), ch, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "customer_view",
		SampleWindow: "3 day",
		InvocationID: "test",
	})
	require.NoError(t, err)

	require.Len(t, ch.executed, 1)
	assert.NotContains(t, ch.executed[0], "WHERE")
}

func TestExecuteInvalidWindow(t *testing.T) {
	svc, cat := newTestProject(t)

	executor := NewModelExecutor(testLogger(), &fakeClient{}, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "top_orders",
		SampleWindow: "0 day",
		InvocationID: "test",
	})
	require.Error(t, err)
}

func TestExecuteEngineError(t *testing.T) {
	svc, cat := newTestProject(t)

	ch := &fakeClient{err: errors.New("connection refused")}
	executor := NewModelExecutor(testLogger(), ch, svc, cat)

	err := executor.Execute(context.Background(), tasks.RunPayload{
		ModelName:    "top_orders",
		InvocationID: "test",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
