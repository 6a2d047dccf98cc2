package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/baramej/library-system/library/internal/scheduler"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeJobs struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (f *fakeJobs) record(name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if name == "overdue-reminders" {
		select {
		case f.done <- struct{}{}:
		default:
		}
	}
	return 1, nil
}

func (f *fakeJobs) RunOverdueSweep(context.Context) (int, error) {
	return f.record("overdue-sweep")
}

func (f *fakeJobs) RunDueReminders(context.Context) (int, error) {
	return f.record("due-reminders")
}

func (f *fakeJobs) RunOverdueReminders(context.Context) (int, error) {
	return f.record("overdue-reminders")
}

func TestScheduler_RunsCycleInOrder(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{done: make(chan struct{}, 1)}
	s := scheduler.New(jobs, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()

	select {
	case <-jobs.done:
	case <-time.After(time.Second):
		t.Fatal("first cycle did not complete")
	}
	cancel()
	require.NoError(t, <-errCh)

	jobs.mu.Lock()
	defer jobs.mu.Unlock()
	require.Equal(t, []string{"overdue-sweep", "due-reminders", "overdue-reminders"}, jobs.calls)
}
