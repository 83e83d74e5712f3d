package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rohits-web03/innerself/internal/repositories"
)

type SettingHandler struct {
	settings *repositories.SettingRepository
	users    *repositories.UserRepository
	accounts *repositories.AccountRepository
	log      *slog.Logger
	now      func() time.Time
}

func NewSettingHandler(settings *repositories.SettingRepository, users *repositories.UserRepository, accounts *repositories.AccountRepository, log *slog.Logger) *SettingHandler {
	return &SettingHandler{settings: settings, users: users, accounts: accounts, log: log, now: time.Now}
}

// GET /api/settings
// GetSettings godoc
// @Summary Read settings
// @Description Creates the default settings on first access
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.Setting}
// @Router /api/settings [get]
func (h *SettingHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.GetOrCreateDefault(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Settings retrieved successfully", setting)
}

// PUT /api/settings
// UpdateSettings godoc
// @Summary Update settings
// @Description Merges the given groups into the stored settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body repositories.SettingPatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.Setting}
// @Failure 400 {object} utils.Payload "Invalid value"
// @Router /api/settings [put]
func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repositories.SettingPatch
	if !decode(w, r, &patch) {
		return
	}
	setting, err := h.settings.Upsert(r.Context(), ownerID(r), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Settings updated successfully", setting)
}

// PUT /api/settings/profile
func (h *SettingHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch repositories.ProfilePatch
	if !decode(w, r, &patch) {
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), ownerID(r), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", user)
}

// DELETE /api/settings/account
// DeleteAccount godoc
// @Summary Delete the account
// @Description Removes the user and every diary entry, task, reminder and setting they own
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Router /api/settings/account [delete]
func (h *SettingHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if err := h.accounts.Delete(r.Context(), owner); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	h.log.Info("account deleted", "user_id", owner)
	respond(w, http.StatusOK, "Account deleted successfully", nil)
}

// GET /api/settings/export
// ExportData godoc
// @Summary Export all data
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=repositories.AccountExport}
// @Router /api/settings/export [get]
func (h *SettingHandler) Export(w http.ResponseWriter, r *http.Request) {
	export, err := h.accounts.Export(r.Context(), ownerID(r), h.now())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Data exported successfully", export)
}
