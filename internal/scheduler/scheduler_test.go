package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dwd-pollen/internal/observability"
)

type countingRefresher struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (r *countingRefresher) RefreshAll(ctx context.Context) {
	_, ok := ctx.Deadline()
	r.hadDeadline.Store(ok)
	r.calls.Add(1)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	refresher := &countingRefresher{}
	s := New(time.Hour, refresher, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return refresher.calls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, refresher.hadDeadline.Load())
}

func TestScheduler_DefaultInterval(t *testing.T) {
	refresher := &countingRefresher{}
	s := New(0, refresher, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return refresher.calls.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}
