package handlers

import (
	"log/slog"
	"net/http"

	"github.com/rohits-web03/innerself/internal/repositories"
)

type ReminderHandler struct {
	reminders *repositories.ReminderRepository
	log       *slog.Logger
}

func NewReminderHandler(reminders *repositories.ReminderRepository, log *slog.Logger) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, log: log}
}

// GET /api/reminders
// ListReminders godoc
// @Summary List reminders
// @Description Soonest first
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Reminder}
// @Router /api/reminders [get]
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminders.List(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}

// POST /api/reminders
// CreateReminder godoc
// @Summary Create a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body repositories.ReminderInput true "Reminder"
// @Success 201 {object} utils.Payload{data=models.Reminder}
// @Failure 400 {object} utils.Payload "Title or date missing or invalid"
// @Router /api/reminders [post]
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input repositories.ReminderInput
	if !decode(w, r, &input) {
		return
	}
	reminder, err := h.reminders.Create(r.Context(), ownerID(r), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusCreated, "Reminder created successfully", reminder)
}

// GET /api/reminders/{id}
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.reminders.Get(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Reminder retrieved successfully", reminder)
}

// PUT /api/reminders/{id}
// UpdateReminder godoc
// @Summary Update a reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder id"
// @Param body body repositories.ReminderPatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.Reminder}
// @Failure 404 {object} utils.Payload "Reminder not found"
// @Router /api/reminders/{id} [put]
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repositories.ReminderPatch
	if !decode(w, r, &patch) {
		return
	}
	reminder, err := h.reminders.Update(r.Context(), ownerID(r), r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Reminder updated successfully", reminder)
}

// DELETE /api/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reminders.Delete(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Reminder deleted successfully", nil)
}

// GET /api/reminders/range/{start}/{end}
// ReminderRange godoc
// @Summary Reminders in a date range
// @Tags Reminders
// @Produce json
// @Security BearerAuth
// @Param start path string true "Start (RFC 3339 or YYYY-MM-DD)"
// @Param end path string true "End (RFC 3339 or YYYY-MM-DD, inclusive)"
// @Success 200 {object} utils.Payload{data=[]models.Reminder}
// @Failure 400 {object} utils.Payload "Invalid dates"
// @Router /api/reminders/range/{start}/{end} [get]
func (h *ReminderHandler) Range(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r.PathValue("start"), r.PathValue("end"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	reminders, err := h.reminders.Range(r.Context(), ownerID(r), start, end)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Reminders for date range retrieved successfully", reminders)
}
