package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kmareda/regdesk/internal/config"
	"github.com/kmareda/regdesk/internal/handler"
	"github.com/kmareda/regdesk/internal/repository/sqlite"
	"github.com/kmareda/regdesk/internal/service"
)

const (
	validateEmailLimit  = 100
	validateEmailWindow = 15 * time.Minute
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db := openDatabase(cfg.DatabasePath, cfg.ConnectRetryDelay)
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	verifier := service.NewEmailVerifier(cfg.Email.URL, cfg.Email.Key)
	userService := service.NewUserService(db.Users(), verifier)
	dashboardService := service.NewDashboardService(db.Stats())
	limiter := service.NewSlidingWindow(validateEmailLimit, validateEmailWindow)

	sessionService, err := service.NewSessionService(
		db.Sessions(), cfg.Session.Secret, cfg.Session.MaxAge,
		cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.BcryptCost,
	)
	if err != nil {
		slog.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}

	accessLog, err := os.OpenFile(cfg.AccessLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open access log", "path", cfg.AccessLogPath, "error", err)
		os.Exit(1)
	}
	defer accessLog.Close()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessionService, userService, dashboardService, verifier, limiter, cfg.Production)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(handler.Recover(handler.AccessLog(accessLog, mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase retries until the database opens. The file can be on
// storage that attaches after the process starts, so there is no attempt
// cap; the retry delay is fixed.
func openDatabase(path string, retryDelay time.Duration) *sqlite.DB {
	for {
		db, err := sqlite.New(path)
		if err == nil {
			return db
		}
		slog.Error("failed to open database, retrying", "path", path, "delay", retryDelay, "error", err)
		time.Sleep(retryDelay)
	}
}
