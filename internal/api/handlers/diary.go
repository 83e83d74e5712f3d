package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/repositories"
)

const voiceUploadExpiry = 15 * time.Minute

var voiceExtensions = map[string]string{
	"audio/webm": "webm",
	"audio/ogg":  "ogg",
	"audio/mpeg": "mp3",
	"audio/mp4":  "m4a",
	"audio/wav":  "wav",
}

// VoiceStore holds uploaded voice notes.
type VoiceStore interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	URLFor(key string) string
}

type DiaryHandler struct {
	diary *repositories.DiaryRepository
	// voice is nil when object storage is not configured.
	voice VoiceStore
	log   *slog.Logger
}

func NewDiaryHandler(diary *repositories.DiaryRepository, voice VoiceStore, log *slog.Logger) *DiaryHandler {
	return &DiaryHandler{diary: diary, voice: voice, log: log}
}

// GET /api/diary
// ListDiary godoc
// @Summary List diary entries
// @Description Newest first
// @Tags Diary
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.DiaryEntry}
// @Router /api/diary [get]
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.diary.List(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Diary entries retrieved successfully", entries)
}

// POST /api/diary
// CreateDiary godoc
// @Summary Create a diary entry
// @Tags Diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body repositories.DiaryInput true "Entry"
// @Success 201 {object} utils.Payload{data=models.DiaryEntry}
// @Failure 400 {object} utils.Payload "Content is required"
// @Router /api/diary [post]
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input repositories.DiaryInput
	if !decode(w, r, &input) {
		return
	}
	entry, err := h.diary.Create(r.Context(), ownerID(r), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusCreated, "Diary entry created successfully", entry)
}

// GET /api/diary/{id}
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.diary.Get(r.Context(), ownerID(r), r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Diary entry retrieved successfully", entry)
}

// PUT /api/diary/{id}
// UpdateDiary godoc
// @Summary Update a diary entry
// @Tags Diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry id"
// @Param body body repositories.DiaryPatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.DiaryEntry}
// @Failure 404 {object} utils.Payload "Diary entry not found"
// @Router /api/diary/{id} [put]
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repositories.DiaryPatch
	if !decode(w, r, &patch) {
		return
	}
	entry, err := h.diary.Update(r.Context(), ownerID(r), r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Diary entry updated successfully", entry)
}

// DELETE /api/diary/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.diary.Delete(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Diary entry deleted successfully", nil)
}

// POST /api/diary/{id}/voice/presign
// PresignVoice godoc
// @Summary Presign a voice note upload
// @Description Returns a temporary URL the client PUTs the recording to, then confirms with /voice/complete.
// @Tags Diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry id"
// @Success 200 {object} utils.Payload "Presigned upload URL generated successfully"
// @Failure 400 {object} utils.Payload "Unsupported content type"
// @Failure 404 {object} utils.Payload "Diary entry not found"
// @Failure 503 {object} utils.Payload "Voice uploads are not configured"
// @Router /api/diary/{id}/voice/presign [post]
func (h *DiaryHandler) PresignVoice(w http.ResponseWriter, r *http.Request) {
	if h.voice == nil {
		respondError(w, r, h.log, apperr.Unavailable("Voice uploads are not configured"))
		return
	}
	var input struct {
		ContentType string `json:"contentType"`
	}
	if !decode(w, r, &input) {
		return
	}
	ext, ok := voiceExtensions[strings.ToLower(strings.TrimSpace(input.ContentType))]
	if !ok {
		respondError(w, r, h.log, apperr.ValidationField("contentType", "Unsupported content type"))
		return
	}

	owner := ownerID(r)
	entry, err := h.diary.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	key := fmt.Sprintf("%s%s.%s", voicePrefix(owner, entry.ID), uuid.NewString(), ext)
	url, err := h.voice.PresignPut(r.Context(), key, input.ContentType, voiceUploadExpiry)
	if err != nil {
		respondError(w, r, h.log, fmt.Errorf("presign voice upload: %w", err))
		return
	}

	respond(w, http.StatusOK, "Presigned upload URL generated successfully", map[string]any{
		"uploadUrl": url,
		"key":       key,
		"expiresIn": int(voiceUploadExpiry.Seconds()),
	})
}

// POST /api/diary/{id}/voice/complete
// CompleteVoice godoc
// @Summary Attach an uploaded voice note
// @Tags Diary
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry id"
// @Success 200 {object} utils.Payload{data=models.DiaryEntry}
// @Failure 400 {object} utils.Payload "Invalid key or upload missing"
// @Failure 404 {object} utils.Payload "Diary entry not found"
// @Failure 503 {object} utils.Payload "Voice uploads are not configured"
// @Router /api/diary/{id}/voice/complete [post]
func (h *DiaryHandler) CompleteVoice(w http.ResponseWriter, r *http.Request) {
	if h.voice == nil {
		respondError(w, r, h.log, apperr.Unavailable("Voice uploads are not configured"))
		return
	}
	var input struct {
		Key string `json:"key"`
	}
	if !decode(w, r, &input) {
		return
	}

	owner := ownerID(r)
	entry, err := h.diary.Get(r.Context(), owner, r.PathValue("id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if !strings.HasPrefix(input.Key, voicePrefix(owner, entry.ID)) {
		respondError(w, r, h.log, apperr.ValidationField("key", "Invalid upload key"))
		return
	}

	exists, err := h.voice.Exists(r.Context(), input.Key)
	if err != nil {
		respondError(w, r, h.log, fmt.Errorf("check voice upload: %w", err))
		return
	}
	if !exists {
		respondError(w, r, h.log, apperr.ValidationField("key", "Upload not found"))
		return
	}

	entry, err = h.diary.AttachVoice(r.Context(), owner, entry.ID.String(), h.voice.URLFor(input.Key))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Voice note attached successfully", entry)
}

func voicePrefix(owner, entryID uuid.UUID) string {
	return fmt.Sprintf("voice/%s/%s/", owner, entryID)
}
