package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	glimmer "github.com/glimmerchat/glimmer"
	"github.com/glimmerchat/glimmer/internal/config"
	"github.com/glimmerchat/glimmer/internal/handler"
	"github.com/glimmerchat/glimmer/internal/identity"
	"github.com/glimmerchat/glimmer/internal/middleware"
	"github.com/glimmerchat/glimmer/internal/repository"
	"github.com/glimmerchat/glimmer/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(glimmer.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	chatRepo := repository.NewChatRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	characterRepo := repository.NewCharacterRepository(pool)
	planRepo := repository.NewPlanRepository(pool)

	// Initialize services
	generator := service.NewOpenRouterClient(cfg.OpenRouterKey, cfg.ChatModel)
	quotaService := service.NewQuotaService(planRepo)
	messageService := service.NewMessageService(chatRepo, messageRepo)
	chatService := service.NewChatService(chatRepo, messageRepo, characterRepo, quotaService, generator)
	characterService := service.NewCharacterService(characterRepo)
	responder := service.NewResponder(chatRepo, characterRepo, messageService, quotaService, generator)

	// Initialize router
	h := handler.New(handler.Deps{
		Chats:      chatService,
		Messages:   messageService,
		Characters: characterService,
		Responder:  responder,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(identity.Middleware(cfg.SessionSecret, cfg.Dev))
	h.Routes(r)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}

	slog.Info("server stopped gracefully")
}
