package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/api/middleware"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/rohits-web03/innerself/internal/utils"
)

func respond(w http.ResponseWriter, status int, message string, data any) {
	utils.JSONResponse(w, status, utils.Payload{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError renders domain errors with their message. Anything else is
// logged and reported as a bare "Server error".
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if repositories.IsDuplicateKey(err) {
		err = apperr.Conflict("", "A record with this value already exists")
	}
	if e, ok := apperr.As(err); ok && e.Code != apperr.CodeUnknown && e.Code != apperr.CodeConfiguration {
		utils.JSONResponse(w, e.Code.HTTPStatus(), utils.Payload{
			Success: false,
			Message: e.Message,
		})
		return
	}

	log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
	utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
		Success: false,
		Error:   "Server error",
	})
}

// decode reads the JSON body into dst and answers 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Success: false,
			Message: "Invalid input",
		})
		return false
	}
	return true
}

func ownerID(r *http.Request) uuid.UUID {
	return middleware.UserIDFrom(r.Context())
}
