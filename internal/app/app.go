// Package app initializes and runs the authgate server: it opens the
// database, runs migrations, wires the repositories, service, and HTTP
// surface together, and handles graceful shutdown.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karlov/authgate/internal/auth"
	"github.com/karlov/authgate/internal/config"
	"github.com/karlov/authgate/internal/httpapi"
	"github.com/karlov/authgate/internal/logging"
	"github.com/karlov/authgate/internal/notify"
	"github.com/karlov/authgate/internal/repositories/repomanager"
	"github.com/karlov/authgate/internal/services"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *http.Server
}

// NewApp wires the process: database, migrations, repositories, service,
// notifier, and the HTTP server. Collaborators are constructed once here and
// injected; nothing is reached through globals.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewIssuer(
		[]byte(cfg.Auth.AccessSecret),
		[]byte(cfg.Auth.RefreshSecret),
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	var notifier notify.Notifier
	switch cfg.Mail.Provider {
	case "sendgrid":
		notifier = notify.NewSendGridNotifier(cfg.Mail.SendGridAPIKey, cfg.Mail.FromEmail, cfg.Mail.FromName)
	default:
		notifier = notify.NewLogNotifier(logger)
	}

	svc := services.NewAuthService(db, rm, auth.NewBcryptHasher(), issuer, notifier, cfg)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      httpapi.NewRouter(httpapi.NewHandler(svc, logger)),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{config: cfg, logger: logger, db: db, server: server}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.initSignalHandler(cancel)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.server.Addr, "env", app.config.Env)
		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}
