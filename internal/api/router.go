package api

import (
	"fmt"
	"log/slog"
	"net/http"

	_ "github.com/rohits-web03/innerself/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/rohits-web03/innerself/internal/api/handlers"
	"github.com/rohits-web03/innerself/internal/api/middleware"
	"github.com/rs/cors"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Diary     *handlers.DiaryHandler
	Reminders *handlers.ReminderHandler
	Tasks     *handlers.TaskHandler
	Settings  *handlers.SettingHandler
	Calendar  *handlers.CalendarHandler
}

type RouterDeps struct {
	Handlers Handlers
	Tokens   middleware.TokenVerifier
	Cors     cors.Options
	Log      *slog.Logger
}

func SetupRouter(deps RouterDeps) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(deps.Cors)
	h := deps.Handlers
	requireAuth := middleware.Auth(deps.Tokens, deps.Log)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /signup", h.Auth.Signup)
	authMux.HandleFunc("POST /login", h.Auth.Login)
	authMux.HandleFunc("POST /logout", h.Auth.Logout)
	authMux.HandleFunc("GET /google/login", h.Auth.GoogleLogin)
	authMux.HandleFunc("GET /google/callback", h.Auth.GoogleCallback)
	authMux.Handle("GET /me", requireAuth(http.HandlerFunc(h.Auth.Me)))
	authMux.Handle("PUT /profile", requireAuth(http.HandlerFunc(h.Auth.UpdateProfile)))
	authMux.Handle("PUT /change-password", requireAuth(http.HandlerFunc(h.Auth.ChangePassword)))

	mainMux.Handle("/api/auth/",
		http.StripPrefix("/api/auth", authMux),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	diaryMux := http.NewServeMux()
	diaryMux.HandleFunc("GET /{$}", h.Diary.List)
	diaryMux.HandleFunc("POST /{$}", h.Diary.Create)
	diaryMux.HandleFunc("GET /{id}", h.Diary.Get)
	diaryMux.HandleFunc("PUT /{id}", h.Diary.Update)
	diaryMux.HandleFunc("DELETE /{id}", h.Diary.Delete)
	diaryMux.HandleFunc("POST /{id}/voice/presign", h.Diary.PresignVoice)
	diaryMux.HandleFunc("POST /{id}/voice/complete", h.Diary.CompleteVoice)

	reminderMux := http.NewServeMux()
	reminderMux.HandleFunc("GET /{$}", h.Reminders.List)
	reminderMux.HandleFunc("POST /{$}", h.Reminders.Create)
	reminderMux.HandleFunc("GET /range/{start}/{end}", h.Reminders.Range)
	reminderMux.HandleFunc("GET /{id}", h.Reminders.Get)
	reminderMux.HandleFunc("PUT /{id}", h.Reminders.Update)
	reminderMux.HandleFunc("DELETE /{id}", h.Reminders.Delete)

	taskMux := http.NewServeMux()
	taskMux.HandleFunc("GET /{$}", h.Tasks.List)
	taskMux.HandleFunc("POST /{$}", h.Tasks.Create)
	taskMux.HandleFunc("PUT /reorder", h.Tasks.Reorder)
	taskMux.HandleFunc("PUT /{id}", h.Tasks.Update)
	taskMux.HandleFunc("DELETE /{id}", h.Tasks.Delete)

	settingMux := http.NewServeMux()
	settingMux.HandleFunc("GET /{$}", h.Settings.Get)
	settingMux.HandleFunc("PUT /{$}", h.Settings.Update)
	settingMux.HandleFunc("PUT /profile", h.Settings.UpdateProfile)
	settingMux.HandleFunc("DELETE /account", h.Settings.DeleteAccount)
	settingMux.HandleFunc("GET /export", h.Settings.Export)

	calendarMux := http.NewServeMux()
	calendarMux.HandleFunc("GET /{$}", h.Calendar.Events)
	calendarMux.HandleFunc("GET /date/{date}", h.Calendar.Date)
	calendarMux.HandleFunc("GET /upcoming", h.Calendar.Upcoming)
	calendarMux.HandleFunc("POST /quick-reminder", h.Calendar.QuickReminder)

	protectedMux.Handle("/diary/", http.StripPrefix("/diary", diaryMux))
	protectedMux.Handle("/reminders/", http.StripPrefix("/reminders", reminderMux))
	protectedMux.Handle("/tasks/", http.StripPrefix("/tasks", taskMux))
	protectedMux.Handle("/settings/", http.StripPrefix("/settings", settingMux))
	protectedMux.Handle("/calendar/", http.StripPrefix("/calendar", calendarMux))

	mainMux.Handle("/api/",
		http.StripPrefix(
			"/api",
			requireAuth(withTrailingSlash(protectedMux)),
		),
	)

	deps.Log.Info("router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(deps.Log)(handler)
	return handler
}

// withTrailingSlash maps collection paths such as "/diary" onto the "/diary/"
// subtree so they reach the nested mux instead of a redirect.
func withTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/diary", "/reminders", "/tasks", "/settings", "/calendar":
			r2 := r.Clone(r.Context())
			r2.URL.Path += "/"
			if r2.URL.RawPath != "" {
				r2.URL.RawPath += "/"
			}
			next.ServeHTTP(w, r2)
			return
		}
		next.ServeHTTP(w, r)
	})
}
