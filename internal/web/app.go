// Package web initializes and runs the local web client: state database,
// session and theme managers, backend gateway and the page server, with
// graceful shutdown on SIGINT/SIGTERM.
package web

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wormdetector/internal/logging"
	"wormdetector/internal/web/api"
	"wormdetector/internal/web/auth"
	"wormdetector/internal/web/config"
	"wormdetector/internal/web/session"
	"wormdetector/internal/web/state"
	"wormdetector/internal/web/theme"
	"wormdetector/internal/web/ui"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router http.Handler
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, kv, err := state.InitDatabase(context.Background(), cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("state db error: %w", err)
	}

	authManager := auth.NewManager(session.NewStore(kv))
	themes := theme.NewManager(kv)
	backend := api.NewClient(cfg.BackendBaseURL)

	handler := ui.NewHandler(authManager, themes, backend, logger.With("component", "ui"))
	router := ui.NewRouter(handler, logger)

	return &App{config: cfg, logger: logger, db: db, router: router}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "web client listening", "addr", app.config.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, err.Error())
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, err.Error())
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
