// Package server initializes and runs the classification API: database,
// migrations, services, and the HTTP endpoint, with graceful shutdown on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wormdetector/internal/logging"
	"wormdetector/internal/server/classifier"
	"wormdetector/internal/server/config"
	"wormdetector/internal/server/httpapi"
	"wormdetector/internal/server/imagestore"
	"wormdetector/internal/server/mailer"
	"wormdetector/internal/server/repositories/repomanager"
	"wormdetector/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var alerter mailer.Alerter = mailer.NopAlerter{}
	if cfg.SMTPHost != "" {
		alerter = mailer.NewSMTPAlerter(cfg)
	}

	us := services.NewUserService(db, rm)
	ps := services.NewPredictionService(db, rm,
		classifier.NewLogistic(),
		imagestore.NewS3Store(cfg),
		alerter,
		logger.With("component", "predictions"),
	)

	handler := httpapi.NewHandler(us, ps, logger.With("component", "httpapi"))
	srv := httpapi.NewServer(cfg.EndpointAddr, httpapi.NewRouter(handler, logger), logger)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
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

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
