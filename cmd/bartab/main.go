// Package main запускает локальный HTTP-сервер кассового клиента бара.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/bartab-pos/internal/config"
	"github.com/mmeshcher/bartab-pos/internal/handler"
	"github.com/mmeshcher/bartab-pos/internal/middleware"
	"github.com/mmeshcher/bartab-pos/internal/repository"
	"github.com/mmeshcher/bartab-pos/internal/service"
	"github.com/mmeshcher/bartab-pos/internal/tabapi"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	// Журнал чеков необязателен: без DATABASE_URI чеки не сохраняются.
	var journal service.Journal
	if cfg.DatabaseURI != "" {
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		journal = repo
	}

	if cfg.TabAPIAddress == "" {
		sugar.Warn("tab backend address is not set, remote operations will fail")
	}
	client := tabapi.NewClient(cfg.TabAPIAddress, cfg.RequestTimeout)

	svc := service.NewService(client, journal, logger, cfg.MenuColumns)
	defer svc.Close()

	if cfg.SessionSecret == "" {
		sugar.Warn("session secret is not set, using a random key: session cookies issued before a restart will be rejected")
	}
	authMiddleware := middleware.NewAuthMiddleware(cfg.SessionSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	svc.Load(loadCtx)
	cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting bartab server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
