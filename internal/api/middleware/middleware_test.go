package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/logging"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier map[string]*models.User

func (s stubVerifier) Verify(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apperr.Auth("Token is not valid")
}

type brokenVerifier struct{}

func (brokenVerifier) Verify(context.Context, string) (*models.User, error) {
	return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
}

func TestAuth(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice"}
	var seen uuid.UUID
	h := Auth(stubVerifier{"good": alice}, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		method  string
		header  string
		status  int
		message string
	}{
		{"missing header", http.MethodGet, "", http.StatusUnauthorized, "No token, authorization denied"},
		{"blank header", http.MethodGet, "   ", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", http.MethodGet, "Basic good", http.StatusUnauthorized, "Token is not valid"},
		{"scheme only", http.MethodGet, "Bearer", http.StatusUnauthorized, "Token is not valid"},
		{"empty token", http.MethodGet, "Bearer   ", http.StatusUnauthorized, "Token is not valid"},
		{"bad token", http.MethodGet, "Bearer nope", http.StatusUnauthorized, "Token is not valid"},
		{"good token", http.MethodGet, "Bearer good", http.StatusNoContent, ""},
		{"lowercase scheme", http.MethodGet, "bearer good", http.StatusNoContent, ""},
		{"preflight", http.MethodOptions, "", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(tt.method, "/api/diary", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.JSONEq(t, `{"success":false,"message":"`+tt.message+`"}`, rec.Body.String())
				assert.Equal(t, uuid.Nil, seen)
			}
			if tt.status == http.StatusNoContent && tt.method != http.MethodOptions {
				assert.Equal(t, alice.ID, seen)
			}
		})
	}
}

func TestAuth_VerifierFailureIsServerError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	called := false
	h := Auth(brokenVerifier{}, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/diary", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestUserFrom_Empty(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, UserIDFrom(context.Background()))
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotZero(t, buf.Len())
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/health"`)
	assert.Contains(t, buf.String(), `"method":"GET"`)
}
