package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/calendar"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/repositories"
)

const quickReminderTime = "12:00"

type CalendarHandler struct {
	calendar  *calendar.Service
	reminders *repositories.ReminderRepository
	log       *slog.Logger
}

func NewCalendarHandler(svc *calendar.Service, reminders *repositories.ReminderRepository, log *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: svc, reminders: reminders, log: log}
}

// GET /api/calendar
// CalendarEvents godoc
// @Summary Calendar events
// @Description Reminders then diary entries in the window given by start/end, or by year/month.
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param start query string false "Start (RFC 3339 or YYYY-MM-DD)"
// @Param end query string false "End (RFC 3339 or YYYY-MM-DD, inclusive)"
// @Param year query int false "Year"
// @Param month query int false "Month, 1-12"
// @Success 200 {object} utils.Payload{data=[]calendar.Event}
// @Failure 400 {object} utils.Payload "Missing or invalid window"
// @Router /api/calendar [get]
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	start, end, err := calendarWindow(r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	events, err := h.calendar.EventsForRange(r.Context(), ownerID(r), start, end)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Calendar events retrieved successfully", events)
}

func calendarWindow(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	if q.Get("start") != "" || q.Get("end") != "" {
		return parseRange(q.Get("start"), q.Get("end"))
	}
	if q.Get("year") == "" || q.Get("month") == "" {
		return time.Time{}, time.Time{}, apperr.Validation("Year and month are required")
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, apperr.ValidationField("year", "Invalid year")
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperr.ValidationField("month", "Invalid month")
	}
	start, end := calendar.MonthRange(year, time.Month(month))
	return start, end, nil
}

// GET /api/calendar/date/{date}
// CalendarDate godoc
// @Summary Everything on one day
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param date path string true "Day (YYYY-MM-DD, UTC)"
// @Success 200 {object} utils.Payload{data=calendar.Day}
// @Failure 400 {object} utils.Payload "Invalid date"
// @Router /api/calendar/date/{date} [get]
func (h *CalendarHandler) Date(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseTime(r.PathValue("date"))
	if err != nil {
		respondError(w, r, h.log, apperr.ValidationField("date", "Invalid date"))
		return
	}
	day, err := h.calendar.EventsForDate(r.Context(), ownerID(r), date)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Events for date retrieved successfully", day)
}

// GET /api/calendar/upcoming
// CalendarUpcoming godoc
// @Summary Upcoming reminders
// @Description Up to 10 incomplete reminders in the next 7 days
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Reminder}
// @Router /api/calendar/upcoming [get]
func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.calendar.Upcoming(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Upcoming events retrieved successfully", reminders)
}

// POST /api/calendar/quick-reminder
// QuickReminder godoc
// @Summary Create a reminder from the calendar
// @Description time defaults to 12:00
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} utils.Payload{data=models.Reminder}
// @Failure 400 {object} utils.Payload "Title and date are required"
// @Router /api/calendar/quick-reminder [post]
func (h *CalendarHandler) QuickReminder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title string `json:"title"`
		Date  string `json:"date"`
		Time  string `json:"time"`
	}
	if !decode(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Date) == "" {
		respondError(w, r, h.log, apperr.Validation("Title and date are required"))
		return
	}
	at := strings.TrimSpace(input.Time)
	if at == "" {
		at = quickReminderTime
	}

	reminder, err := h.reminders.Create(r.Context(), ownerID(r), repositories.ReminderInput{
		Title:    input.Title,
		Datetime: strings.TrimSpace(input.Date) + "T" + at,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusCreated, "Quick reminder created successfully", reminder)
}
