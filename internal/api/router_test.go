package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/auth"
	"github.com/rohits-web03/innerself/internal/cli"
	"github.com/rohits-web03/innerself/internal/config"
	"github.com/rohits-web03/innerself/internal/logging"
	"github.com/rohits-web03/innerself/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
	} `json:"user"`
}

type fakeVoice struct {
	uploaded map[string]bool
}

func (f *fakeVoice) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://upload.example/" + key, nil
}

func (f *fakeVoice) Exists(_ context.Context, key string) (bool, error) {
	return f.uploaded[key], nil
}

func (f *fakeVoice) URLFor(key string) string {
	return "https://cdn.example/" + key
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	voice   *fakeVoice
	db      *gorm.DB
}

func newServer(t *testing.T, withVoice bool) *testServer {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:         testSecret,
		TokenTTL:          auth.DefaultTokenTTL,
		Environment:       "test",
		AllowedOrigins:    []string{"http://localhost:3000"},
		ClientURL:         "http://localhost:3000",
		SchedulerInterval: time.Minute,
	}
	srv := &testServer{t: t, db: testkit.NewDB(t)}
	opts := cli.AppOptions{Hasher: testkit.Hasher()}
	if withVoice {
		srv.voice = &fakeVoice{uploaded: map[string]bool{}}
		opts.Voice = srv.voice
	}
	srv.handler = cli.NewApp(cfg, srv.db, logging.Discard(), opts).Handler
	return srv
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) signup(username string) session {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Test " + username,
		"username": username,
		"email":    username + "@example.com",
		"password": "password1",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)
	var sess session
	require.NoError(s.t, json.Unmarshal(env.Data, &sess))
	return sess
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestSignupTokenResolvesToUser(t *testing.T) {
	s := newServer(t, false)
	sess := s.signup("alice")
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "alice", sess.User.Username)

	status, env := s.do(http.MethodGet, "/api/auth/me", sess.Token, nil)
	require.Equal(t, http.StatusOK, status)
	me := decodeData[map[string]any](t, env)
	assert.Equal(t, sess.User.ID.String(), me["id"])
	assert.NotContains(t, me, "password")
}

func TestLogin(t *testing.T) {
	s := newServer(t, false)
	s.signup("bob")

	status, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bob", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid username or password", env.Message)

	status, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "nobody", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid username or password", env.Message)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "BOB", "password": "password1"})
	require.Equal(t, http.StatusOK, status)
	sess := decodeData[session](t, env)
	status, _ = s.do(http.MethodGet, "/api/auth/me", sess.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestDuplicateSignupByEmail(t *testing.T) {
	s := newServer(t, false)
	s.signup("carol")

	status, env := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Other", "username": "other", "email": "CAROL@example.com", "password": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "email")
}

func TestTokenRejection(t *testing.T) {
	s := newServer(t, false)
	sess := s.signup("dave")

	status, env := s.do(http.MethodGet, "/api/diary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "No token, authorization denied", env.Message)

	forged, err := auth.NewTokenManager("another-secret", time.Hour, nil).Issue(sess.User.ID)
	require.NoError(t, err)
	status, env = s.do(http.MethodGet, "/api/diary", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is not valid", env.Message)

	past := time.Now().Add(-30 * 24 * time.Hour)
	expired, err := auth.NewTokenManager(testSecret, time.Hour, nil).WithClock(func() time.Time { return past }).Issue(sess.User.ID)
	require.NoError(t, err)
	status, _ = s.do(http.MethodGet, "/api/diary", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	req := httptest.NewRequest(http.MethodGet, "/api/diary", nil)
	req.Header.Set("Authorization", "Basic "+sess.Token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Token is not valid"}`, rec.Body.String())
}

func TestDatabaseOutageIsServerError(t *testing.T) {
	s := newServer(t, false)
	sess := s.signup("olga")

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	status, env := s.do(http.MethodGet, "/api/diary", sess.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server error", env.Error)
	assert.Empty(t, env.Message)

	status, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "olga", "password": "password1",
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server error", env.Error)
}

func TestDiaryIsolation(t *testing.T) {
	s := newServer(t, false)
	a := s.signup("erin")
	b := s.signup("frank")

	status, env := s.do(http.MethodPost, "/api/diary", a.Token, map[string]any{"content": "secret thoughts", "mood": "calm", "tags": []string{"x"}})
	require.Equal(t, http.StatusCreated, status, env.Message)
	entry := decodeData[map[string]any](t, env)
	id := entry["id"].(string)
	assert.Equal(t, "calm", entry["mood"])

	status, env = s.do(http.MethodGet, "/api/diary", b.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeData[[]map[string]any](t, env))

	status, env = s.do(http.MethodPut, "/api/diary/"+id, b.Token, map[string]any{"content": "mine now"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Diary entry not found", env.Message)

	status, _ = s.do(http.MethodDelete, "/api/diary/"+id, b.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = s.do(http.MethodGet, "/api/diary/"+id, a.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "secret thoughts", decodeData[map[string]any](t, env)["content"])

	status, _ = s.do(http.MethodDelete, "/api/diary/"+id, a.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTaskReorder(t *testing.T) {
	s := newServer(t, false)
	u := s.signup("gina")

	ids := map[string]string{}
	for _, text := range []string{"a", "b", "c"} {
		status, env := s.do(http.MethodPost, "/api/tasks", u.Token, map[string]string{"text": text})
		require.Equal(t, http.StatusCreated, status)
		ids[text] = decodeData[map[string]any](t, env)["id"].(string)
	}

	status, env := s.do(http.MethodPut, "/api/tasks/reorder", u.Token, map[string]any{
		"taskIds": []string{ids["c"], ids["a"], ids["b"]},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Len(t, decodeData[[]map[string]any](t, env), 3)

	status, env = s.do(http.MethodGet, "/api/tasks", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	orders := map[string]float64{}
	for _, task := range decodeData[[]map[string]any](t, env) {
		orders[task["text"].(string)] = task["order"].(float64)
	}
	assert.Equal(t, map[string]float64{"a": 1, "b": 2, "c": 0}, orders)

	status, env = s.do(http.MethodPut, "/api/tasks/reorder", u.Token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "taskIds must be an array", env.Message)
}

func TestSettingsAndAccount(t *testing.T) {
	s := newServer(t, false)
	u := s.signup("hank")

	status, env := s.do(http.MethodGet, "/api/settings", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	first := decodeData[map[string]any](t, env)
	assert.Equal(t, "light", first["theme"])

	status, env = s.do(http.MethodPut, "/api/settings", u.Token, map[string]any{
		"theme":       "dark",
		"preferences": map[string]string{"timeFormat": "24h"},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	updated := decodeData[map[string]any](t, env)
	assert.Equal(t, first["id"], updated["id"])
	assert.Equal(t, "dark", updated["theme"])
	assert.Equal(t, "24h", updated["preferences"].(map[string]any)["timeFormat"])
	assert.Equal(t, "en", updated["preferences"].(map[string]any)["language"])

	status, _ = s.do(http.MethodPut, "/api/settings", u.Token, map[string]any{"theme": "neon"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(http.MethodPost, "/api/reminders", u.Token, map[string]any{"title": "Dentist", "datetime": "2025-04-02T09:00"})
	require.Equal(t, http.StatusCreated, status)

	status, env = s.do(http.MethodGet, "/api/settings/export", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	export := decodeData[map[string]any](t, env)
	assert.Len(t, export["reminders"], 1)
	assert.NotNil(t, export["settings"])

	status, _ = s.do(http.MethodDelete, "/api/settings/account", u.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, "/api/auth/me", u.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is not valid", env.Message)
}

func TestProfileAndPassword(t *testing.T) {
	s := newServer(t, false)
	u := s.signup("ivy")
	s.signup("jack")

	status, env := s.do(http.MethodPut, "/api/auth/profile", u.Token, map[string]string{"bio": "hello", "email": "jack@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "email")

	status, env = s.do(http.MethodPut, "/api/settings/profile", u.Token, map[string]string{"bio": "hello"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", decodeData[map[string]any](t, env)["bio"])

	status, env = s.do(http.MethodPut, "/api/auth/change-password", u.Token, map[string]string{"currentPassword": "nope", "newPassword": "brand-new"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Current password is incorrect", env.Message)

	status, _ = s.do(http.MethodPut, "/api/auth/change-password", u.Token, map[string]string{"currentPassword": "password1", "newPassword": "brand-new"})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ivy", "password": "brand-new"})
	assert.Equal(t, http.StatusOK, status)
}

func TestCalendar(t *testing.T) {
	s := newServer(t, false)
	u := s.signup("kim")

	status, env := s.do(http.MethodPost, "/api/calendar/quick-reminder", u.Token, map[string]string{"title": "Lunch", "date": "2025-03-14"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	reminder := decodeData[map[string]any](t, env)
	assert.Equal(t, "2025-03-14T12:00:00Z", reminder["datetime"])
	assert.Equal(t, "#ff6b6b", reminder["color"])

	status, env = s.do(http.MethodPost, "/api/calendar/quick-reminder", u.Token, map[string]string{"title": "Lunch"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Title and date are required", env.Message)

	status, env = s.do(http.MethodGet, "/api/calendar?year=2025&month=3", u.Token, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	events := decodeData[[]map[string]any](t, env)
	require.Len(t, events, 1)
	assert.Equal(t, "reminder", events[0]["type"])

	status, env = s.do(http.MethodGet, "/api/calendar?start=2025-03-14&end=2025-03-14", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[[]map[string]any](t, env), 1)

	status, _ = s.do(http.MethodGet, "/api/calendar", u.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = s.do(http.MethodGet, "/api/calendar?year=2025&month=13", u.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(http.MethodGet, "/api/calendar/date/2025-03-14", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	day := decodeData[map[string][]any](t, env)
	assert.Len(t, day["reminders"], 1)
	assert.Empty(t, day["diaryEntries"])

	status, _ = s.do(http.MethodGet, "/api/calendar/date/someday", u.Token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(http.MethodGet, "/api/reminders/range/2025-03-01/2025-03-31", u.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[[]any](t, env), 1)

	status, _ = s.do(http.MethodGet, "/api/calendar/upcoming", u.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestVoiceUpload(t *testing.T) {
	disabled := newServer(t, false)
	u := disabled.signup("lee")
	status, env := disabled.do(http.MethodPost, "/api/diary/"+uuid.NewString()+"/voice/presign", u.Token, map[string]string{"contentType": "audio/webm"})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Voice uploads are not configured", env.Message)

	s := newServer(t, true)
	u = s.signup("max")
	status, env = s.do(http.MethodPost, "/api/diary", u.Token, map[string]string{"content": "spoken entry"})
	require.Equal(t, http.StatusCreated, status)
	id := decodeData[map[string]any](t, env)["id"].(string)

	status, _ = s.do(http.MethodPost, "/api/diary/"+id+"/voice/presign", u.Token, map[string]string{"contentType": "image/png"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = s.do(http.MethodPost, "/api/diary/"+id+"/voice/presign", u.Token, map[string]string{"contentType": "audio/webm"})
	require.Equal(t, http.StatusOK, status, env.Message)
	presign := decodeData[map[string]any](t, env)
	key := presign["key"].(string)
	assert.True(t, strings.HasPrefix(key, "voice/"+u.User.ID.String()+"/"+id+"/"))
	assert.True(t, strings.HasSuffix(key, ".webm"))

	status, env = s.do(http.MethodPost, "/api/diary/"+id+"/voice/complete", u.Token, map[string]string{"key": key})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Upload not found", env.Message)

	status, _ = s.do(http.MethodPost, "/api/diary/"+id+"/voice/complete", u.Token, map[string]string{"key": "voice/other/" + key})
	assert.Equal(t, http.StatusBadRequest, status)

	s.voice.uploaded[key] = true
	status, env = s.do(http.MethodPost, "/api/diary/"+id+"/voice/complete", u.Token, map[string]string{"key": key})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "https://cdn.example/"+key, decodeData[map[string]any](t, env)["voiceFileUrl"])
}

func TestGoogleLoginWithoutConfig(t *testing.T) {
	s := newServer(t, false)
	status, env := s.do(http.MethodGet, "/api/auth/google/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Google sign-in is not configured", env.Message)
}

func TestInvalidJSONBody(t *testing.T) {
	s := newServer(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid input"}`, rec.Body.String())
}
