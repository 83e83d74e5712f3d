package cli

import (
	"log/slog"
	"net/http"

	"github.com/rohits-web03/innerself/internal/api"
	"github.com/rohits-web03/innerself/internal/api/handlers"
	"github.com/rohits-web03/innerself/internal/api/services"
	"github.com/rohits-web03/innerself/internal/auth"
	"github.com/rohits-web03/innerself/internal/calendar"
	"github.com/rohits-web03/innerself/internal/config"
	"github.com/rohits-web03/innerself/internal/repositories"
	"github.com/rohits-web03/innerself/internal/scheduler"
	"gorm.io/gorm"
)

// App is the wired server: HTTP handler plus the background reminder sweep.
type App struct {
	Handler   http.Handler
	Scheduler *scheduler.Scheduler
	Tokens    *auth.TokenManager
}

type AppOptions struct {
	// Hasher overrides the bcrypt hasher built from cfg.
	Hasher *auth.PasswordHasher
	// Voice overrides the object store built from cfg.R2.
	Voice handlers.VoiceStore
	Clock scheduler.Clock
}

func NewApp(cfg *config.Config, db *gorm.DB, log *slog.Logger, opts AppOptions) *App {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = auth.NewPasswordHasher(cfg.DisablePasswordHashing)
	}
	if hasher.Legacy() {
		log.Warn("DISABLE_PASSWORD_HASHING is on: new passwords are stored in plaintext")
	}

	users := repositories.NewUserRepository(db, hasher)
	diary := repositories.NewDiaryRepository(db)
	reminders := repositories.NewReminderRepository(db)
	tasks := repositories.NewTaskRepository(db)
	settings := repositories.NewSettingRepository(db)
	accounts := repositories.NewAccountRepository(db, log)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, users)

	voice := opts.Voice
	if voice == nil && cfg.R2.Enabled() {
		voice = repositories.NewR2(cfg.R2, log)
	}
	if voice == nil {
		log.Info("object storage not configured, voice uploads disabled")
	}

	clock := opts.Clock
	if clock == nil {
		clock = scheduler.SystemClock
	}

	h := api.Handlers{
		Auth: handlers.NewAuthHandler(users, tokens, log, handlers.AuthOptions{
			Google:        services.NewGoogleOAuthConfig(cfg.Google),
			ClientURL:     cfg.ClientURL,
			SecureCookies: cfg.IsProduction(),
		}),
		Diary:     handlers.NewDiaryHandler(diary, voice, log),
		Reminders: handlers.NewReminderHandler(reminders, log),
		Tasks:     handlers.NewTaskHandler(tasks, log),
		Settings:  handlers.NewSettingHandler(settings, users, accounts, log),
		Calendar:  handlers.NewCalendarHandler(calendar.NewService(reminders, diary), reminders, log),
	}

	return &App{
		Handler: api.SetupRouter(api.RouterDeps{
			Handlers: h,
			Tokens:   tokens,
			Cors:     cfg.CorsOptions(),
			Log:      log,
		}),
		Scheduler: scheduler.New(reminders, scheduler.LogNotifier{Log: log}, clock, cfg.SchedulerInterval, log),
		Tokens:    tokens,
	}
}
