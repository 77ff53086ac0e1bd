package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-chatbot-backend/services/api/adapters/agent"
	"todo-chatbot-backend/services/api/adapters/db"
	"todo-chatbot-backend/services/api/adapters/rest/handlers"
	"todo-chatbot-backend/services/api/auth"
	"todo-chatbot-backend/services/api/config"
	"todo-chatbot-backend/services/api/core"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "api server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting api server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := db.New(log, cfg.DBAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close db connection", "error", err)
		}
	}()

	if err := storage.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate db: %w", err)
	}

	agentClient := agent.NewClient(log, cfg.Agent.BaseURL, cfg.Agent.APIKey, cfg.Agent.Model)
	service := core.NewService(storage, agentClient)
	verifier := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	mux := http.NewServeMux()
	handlers.Register(mux, log, service, verifier, cfg.HTTP.Timeout)

	server := http.Server{
		Addr:              cfg.HTTP.Address,
		ReadHeaderTimeout: cfg.HTTP.Timeout,
		Handler:           mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api http server is running", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func mustMakeLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
