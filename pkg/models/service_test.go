package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siftlabs/sift/pkg/dialect"
	"github.com/siftlabs/sift/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModelFile(t *testing.T, dir, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestServiceStartFromFiles(t *testing.T) {
	dir := t.TempDir()

	writeModelFile(t, dir, "stg_orders.sql", `---
event_time: order_at
---
SELECT * FROM {{ source "fct_orders" }}`)

	writeModelFile(t, dir, "order_stats.sql", `---
table: order_stats_daily
---
SELECT count(*) FROM {{ ref "stg_orders" }}`)

	cat := newTestCatalog(t)

	svc, err := NewService(testLogger(), &Config{Paths: []string{dir}, DefaultDatabase: "analytics"}, cat)
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	model, err := svc.GetModel("order_stats")
	require.NoError(t, err)
	assert.Equal(t, "analytics.order_stats_daily", model.PhysicalIdentifier())

	ordered := svc.Models()
	require.Len(t, ordered, 2)
	assert.Equal(t, "stg_orders", ordered[0].GetID())
	assert.Equal(t, "order_stats", ordered[1].GetID())
}

func TestServiceRenderAll(t *testing.T) {
	cat := newTestCatalog(t)

	base := &Model{
		ModelConfig: ModelConfig{Name: "stg_orders", EventTime: "order_at"},
		Content:     `SELECT * FROM {{ source "fct_orders" }}`,
	}
	downstream := &Model{
		ModelConfig: ModelConfig{Name: "order_stats"},
		Content:     `SELECT count(*) FROM {{ ref "stg_orders" }}`,
	}

	svc := newTestProject(t, cat, downstream, base)

	window, err := sample.NewWindow(sample.UnitDay, 3)
	require.NoError(t, err)

	rendered, err := svc.RenderAll(newCompiler(t, cat, window, dialect.NameGeneric), SamplePolicyStrict)
	require.NoError(t, err)
	require.Len(t, rendered, 2)

	assert.Equal(t, "stg_orders", rendered[0].Model.GetID())
	assert.Contains(t, rendered[0].SQL, "order_at > current_date - 3 day")
	assert.Equal(t, "order_stats", rendered[1].Model.GetID())
}

func TestServiceDuplicateModel(t *testing.T) {
	cat := newTestCatalog(t)

	svc, err := NewService(testLogger(), &Config{DefaultDatabase: "analytics"}, cat)
	require.NoError(t, err)

	require.NoError(t, svc.AddModel(testModel("dup")))

	err = svc.AddModel(testModel("dup"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateModel)
}

func TestServiceGetModelNotFound(t *testing.T) {
	cat := newTestCatalog(t)

	svc, err := NewService(testLogger(), &Config{DefaultDatabase: "analytics"}, cat)
	require.NoError(t, err)

	_, err = svc.GetModel("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelNotFound)
}
