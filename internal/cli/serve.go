package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/innerself/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	NoMigrate bool `help:"Skip schema migration on startup."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg, log, err := ctx.load()
	if err != nil {
		return err
	}

	db, err := repositories.ConnectDatabase(cfg, log)
	if err != nil {
		return err
	}
	if !c.NoMigrate {
		if err := repositories.Migrate(db); err != nil {
			if !cfg.IsProduction() {
				return err
			}
			log.Error("migration failed, continuing", "err", err)
		}
	}

	app := NewApp(cfg, db, log, AppOptions{})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: app.Handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		log.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.SchedulerEnabled {
		g.Go(func() error {
			return app.Scheduler.Run(gctx)
		})
	}

	return g.Wait()
}
