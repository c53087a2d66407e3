package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshScheduler_InvalidSpec(t *testing.T) {
	ts := newTestServer(t)
	_, err := NewRefreshScheduler(ts.handler.Cache, "whenever", nil)
	assert.Error(t, err)
}

func TestRefreshScheduler_RunNowRollsDashboardsOver(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	// GIVEN: a cached dashboard computed on 2026-01-05
	view, err := ts.handler.Cache.View(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "2025-12-08", view.LastPayday.String())

	rs, err := NewRefreshScheduler(ts.handler.Cache, "1 0 * * *", ts.handler.Log)
	require.NoError(t, err)
	assert.True(t, rs.LastRun().IsZero())

	// WHEN: the clock reaches payday and the scheduler runs
	ts.now = time.Date(2026, time.January, 8, 0, 1, 0, 0, time.UTC)
	rs.RunNow()

	// THEN: the cached view rolled over without any write
	view, err = ts.handler.Cache.View(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-08", view.LastPayday.String())
	assert.Equal(t, "2026-02-09", view.NextPayday.String())
	assert.False(t, rs.LastRun().IsZero())
}

func TestRefreshScheduler_StartStop(t *testing.T) {
	ts := newTestServer(t)
	rs, err := NewRefreshScheduler(ts.handler.Cache, "1 0 * * *", ts.handler.Log)
	require.NoError(t, err)

	next := rs.NextRunTime()
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 1, next.Minute())

	rs.Start()
	rs.Start()
	rs.Stop()
	rs.Stop()
}

func TestRefreshScheduler_Disabled(t *testing.T) {
	ts := newTestServer(t)
	rs, err := NewRefreshScheduler(ts.handler.Cache, "@hourly", ts.handler.Log)
	require.NoError(t, err)

	rs.Enabled = false
	rs.Start()
	rs.Stop()
}
