package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/logging"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/rohits-web03/innerself/internal/scheduler"
	"github.com/rohits-web03/innerself/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	ticks chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticks: make(chan time.Time)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(time.Duration) <-chan time.Time { return c.ticks }

// tick advances the clock and releases one wait of the scheduler.
func (c *fakeClock) tick(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	c.mu.Unlock()
	c.ticks <- now
}

type recorder struct {
	mu  sync.Mutex
	got []string
	err error
}

func (r *recorder) Notify(_ context.Context, rem models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, rem.Title)
	return r.err
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestRun_NotifiesEachAlertOnce(t *testing.T) {
	repo := repositories.NewReminderRepository(testkit.NewDB(t))
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	owner := uuid.New()
	for _, r := range []struct {
		title string
		at    time.Time
		pre   int
	}{
		{"first", start.Add(20 * time.Minute), 15},
		{"second", start.Add(2 * time.Minute), 0},
		{"later", start.Add(3 * time.Hour), 15},
	} {
		pre := r.pre
		_, err := repo.Create(context.Background(), owner, repositories.ReminderInput{Title: r.title, Datetime: r.at.Format(time.RFC3339), PreAlert: &pre})
		require.NoError(t, err)
	}

	clock := newFakeClock(start)
	rec := &recorder{}
	s := scheduler.New(repo, rec, clock, time.Minute, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	clock.tick(time.Minute)     // 08:01, nothing due
	clock.tick(4 * time.Minute) // 08:05, both alert instants crossed
	clock.tick(time.Minute)     // 08:06, nothing new
	cancel()
	require.NoError(t, <-done)

	assert.ElementsMatch(t, []string{"first", "second"}, rec.titles())
}

type flakySource struct {
	calls int
}

func (f *flakySource) DueForAlert(_ context.Context, from, to time.Time) ([]models.Reminder, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("db down")
	}
	return []models.Reminder{{Title: from.Format("15:04") + "-" + to.Format("15:04")}}, nil
}

func TestRun_RetriesFailedWindow(t *testing.T) {
	start := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	rec := &recorder{}
	s := scheduler.New(&flakySource{}, rec, clock, time.Minute, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	clock.tick(time.Minute)
	clock.tick(time.Minute)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"08:00-08:02"}, rec.titles())
}

func TestSweep_NotifierErrorsDoNotStop(t *testing.T) {
	source := &flakySource{calls: 1}
	rec := &recorder{err: errors.New("smtp down")}
	s := scheduler.New(source, rec, scheduler.SystemClock, 0, logging.Discard())

	now := time.Now()
	require.NoError(t, s.Sweep(context.Background(), now.Add(-time.Minute), now))
	assert.Len(t, rec.titles(), 1)
}

func TestLogNotifier(t *testing.T) {
	n := scheduler.LogNotifier{Log: logging.Discard()}
	assert.NoError(t, n.Notify(context.Background(), models.Reminder{Title: "x"}))
}
