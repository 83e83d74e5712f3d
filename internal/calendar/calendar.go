// Package calendar merges reminders and diary entries into one time-ordered view.
package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	EventReminder = "reminder"
	EventDiary    = "diary"

	DiaryTitle     = "Diary Entry"
	DiaryColor     = "#4CAF50"
	snippetLength  = 100
	UpcomingWindow = 7 * 24 * time.Hour
	UpcomingLimit  = 10
)

type ReminderSource interface {
	Range(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]models.Reminder, error)
	Upcoming(ctx context.Context, owner uuid.UUID, from, to time.Time, limit int) ([]models.Reminder, error)
}

type DiarySource interface {
	CreatedBetween(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]models.DiaryEntry, error)
}

// Event is one calendar item. Metadata depends on Type.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Date        time.Time      `json:"date"`
	Color       string         `json:"color"`
	Metadata    map[string]any `json:"metadata"`
}

// Day is everything on one calendar day.
type Day struct {
	Reminders    []models.Reminder   `json:"reminders"`
	DiaryEntries []models.DiaryEntry `json:"diaryEntries"`
}

type Service struct {
	reminders ReminderSource
	diary     DiarySource
	now       func() time.Time
}

func NewService(reminders ReminderSource, diary DiarySource) *Service {
	return &Service{reminders: reminders, diary: diary, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// EventsForRange lists reminders in [start, end] followed by diary entries
// created in the same window, each group in ascending time.
func (s *Service) EventsForRange(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]Event, error) {
	reminders, entries, err := s.fetch(ctx, owner, start, end)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(reminders)+len(entries))
	for _, r := range reminders {
		events = append(events, FromReminder(r))
	}
	for _, e := range entries {
		events = append(events, FromDiary(e))
	}
	return events, nil
}

// EventsForDate returns the raw records of the UTC day containing date.
func (s *Service) EventsForDate(ctx context.Context, owner uuid.UUID, date time.Time) (*Day, error) {
	start := DayStart(date)
	end := start.Add(24 * time.Hour).Add(-time.Nanosecond)

	reminders, entries, err := s.fetch(ctx, owner, start, end)
	if err != nil {
		return nil, err
	}
	return &Day{Reminders: reminders, DiaryEntries: entries}, nil
}

// Upcoming returns the next incomplete reminders within a week.
func (s *Service) Upcoming(ctx context.Context, owner uuid.UUID) ([]models.Reminder, error) {
	now := s.now().UTC()
	return s.reminders.Upcoming(ctx, owner, now, now.Add(UpcomingWindow), UpcomingLimit)
}

func (s *Service) fetch(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]models.Reminder, []models.DiaryEntry, error) {
	var (
		reminders []models.Reminder
		entries   []models.DiaryEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reminders, err = s.reminders.Range(gctx, owner, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.diary.CreatedBetween(gctx, owner, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return reminders, entries, nil
}

func FromReminder(r models.Reminder) Event {
	return Event{
		ID:          r.ID,
		Type:        EventReminder,
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Datetime,
		Color:       r.Color,
		Metadata: map[string]any{
			"recurring": r.Recurring,
			"completed": r.Completed,
		},
	}
}

func FromDiary(e models.DiaryEntry) Event {
	return Event{
		ID:          e.ID,
		Type:        EventDiary,
		Title:       DiaryTitle,
		Description: Snippet(e.Content),
		Date:        e.CreatedAt,
		Color:       DiaryColor,
		Metadata:    map[string]any{"mood": e.Mood},
	}
}

// Snippet shortens content to its first 100 runes, marking the cut with "...".
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLength {
		return content
	}
	return string(runes[:snippetLength]) + "..."
}

// DayStart is midnight UTC of t's UTC day.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange is the first and last instant of a calendar month in UTC.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
