// Package scheduler periodically sweeps reminders whose pre-alert time has come.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rohits-web03/innerself/internal/models"
)

// Clock is the scheduler's view of time.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now().UTC() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

type DueSource interface {
	DueForAlert(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
}

// Notifier is told about each reminder whose alert instant was crossed.
type Notifier interface {
	Notify(ctx context.Context, r models.Reminder) error
}

// LogNotifier only records alerts.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, r models.Reminder) error {
	n.Log.InfoContext(ctx, "reminder due",
		"reminder_id", r.ID,
		"user_id", r.UserID,
		"title", r.Title,
		"datetime", r.Datetime,
		"pre_alert", r.PreAlert,
	)
	return nil
}

type Scheduler struct {
	source   DueSource
	notifier Notifier
	clock    Clock
	interval time.Duration
	log      *slog.Logger
}

func New(source DueSource, notifier Notifier, clock Clock, interval time.Duration, log *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{source: source, notifier: notifier, clock: clock, interval: interval, log: log}
}

// Run sweeps every interval until ctx is done. Each sweep covers the window
// since the previous one, so an alert is reported once as long as sweeps
// succeed; a failed sweep is retried over the same window.
func (s *Scheduler) Run(ctx context.Context) error {
	last := s.clock.Now()
	s.log.Info("reminder scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder scheduler stopped")
			return nil
		case <-s.clock.After(s.interval):
		}

		now := s.clock.Now()
		if err := s.Sweep(ctx, last, now); err != nil {
			s.log.Error("reminder sweep failed", "err", err)
			continue
		}
		last = now
	}
}

// Sweep notifies every reminder alerting in (from, to]. Notifier failures are
// logged and do not stop the sweep.
func (s *Scheduler) Sweep(ctx context.Context, from, to time.Time) error {
	due, err := s.source.DueForAlert(ctx, from, to)
	if err != nil {
		return err
	}
	for _, r := range due {
		if err := s.notifier.Notify(ctx, r); err != nil {
			s.log.Warn("reminder notification failed", "reminder_id", r.ID, "err", err)
		}
	}
	return nil
}
