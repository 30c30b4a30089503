package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/f1-standings/internal/dashboard"
)

type fakeRefresher struct {
	mu       sync.Mutex
	loads    []int
	warmups  []int
	err      error
	warmErr  error
	rounds   int
	returned *dashboard.Dashboard
}

func (f *fakeRefresher) Load(_ context.Context, season int) (*dashboard.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads = append(f.loads, season)
	return f.returned, f.err
}

func (f *fakeRefresher) WarmHistory(_ context.Context, season int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warmups = append(f.warmups, season)
	return f.rounds, f.warmErr
}

type fakeBroadcaster struct {
	sent []*dashboard.Dashboard
}

func (b *fakeBroadcaster) Broadcast(d *dashboard.Dashboard) error {
	b.sent = append(b.sent, d)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRunRefreshBroadcasts(t *testing.T) {
	d := &dashboard.Dashboard{Season: "2024"}
	r := &fakeRefresher{returned: d}
	b := &fakeBroadcaster{}
	s := NewScheduler(r, b, 2024, quietLogger())

	require.NoError(t, s.RunRefresh(context.Background()))
	assert.Equal(t, []int{2024}, r.loads)
	require.Len(t, b.sent, 1)
	assert.Same(t, d, b.sent[0])
}

func TestRunRefreshFailureSkipsBroadcast(t *testing.T) {
	r := &fakeRefresher{err: errors.New("upstream down")}
	b := &fakeBroadcaster{}
	s := NewScheduler(r, b, 0, quietLogger())

	assert.Error(t, s.RunRefresh(context.Background()))
	assert.Empty(t, b.sent)
}

func TestRunRefreshWithoutBroadcaster(t *testing.T) {
	s := NewScheduler(&fakeRefresher{returned: &dashboard.Dashboard{}}, nil, 0, quietLogger())
	assert.NoError(t, s.RunRefresh(context.Background()))
}

func TestOnRefreshRunsOnlyAfterSuccess(t *testing.T) {
	r := &fakeRefresher{err: errors.New("upstream down")}
	s := NewScheduler(r, nil, 0, quietLogger())

	calls := 0
	s.OnRefresh(func() { calls++ })

	assert.Error(t, s.RunRefresh(context.Background()))
	assert.Equal(t, 0, calls)

	r.err = nil
	r.returned = &dashboard.Dashboard{}
	require.NoError(t, s.RunRefresh(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRunHistoryWarmup(t *testing.T) {
	r := &fakeRefresher{rounds: 18}
	s := NewScheduler(r, nil, 2023, quietLogger())

	require.NoError(t, s.RunHistoryWarmup(context.Background()))
	assert.Equal(t, []int{2023}, r.warmups)

	r.warmErr = errors.New("store down")
	assert.Error(t, s.RunHistoryWarmup(context.Background()))
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&fakeRefresher{}, nil, 0, quietLogger())

	assert.Error(t, s.Start(), "no jobs scheduled")

	require.NoError(t, s.ScheduleRefresh(5))
	require.NoError(t, s.ScheduleHistoryWarmup("0 6 * * 1"))
	assert.Error(t, s.ScheduleHistoryWarmup("not a cron"))

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleRefresh(60), "scheduling while running")

	entries := s.Entries()
	require.Len(t, entries, 2)

	next := s.GetNextRun()
	require.False(t, next.IsZero())
	// refresh interval clamps to the minimum
	assert.WithinDuration(t, time.Now().Add(MinRefreshInterval*time.Second), next, 2*time.Second)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
}
