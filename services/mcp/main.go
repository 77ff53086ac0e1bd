// MCP server exposing the todo task operations as tools for an AI agent.
// Runs over stdio; every tool call carries a user_id and is executed through
// the same user-scoped service the REST API uses.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"todo-chatbot-backend/services/api/adapters/db"
	"todo-chatbot-backend/services/api/core"
	"todo-chatbot-backend/services/mcp/config"
	"todo-chatbot-backend/services/mcp/tools"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "mcp server configuration file")
	flag.Parse()

	cfg := config.MustLoad(configPath)
	log := mustMakeLogger(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	log.Info("starting mcp server")

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

	service := core.NewService(storage, nil)

	s := server.NewMCPServer(
		"todo-tasks",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	addTool := tools.NewAddTaskTool(service)
	s.AddTool(addTool.Definition(), addTool.Handle)

	listTool := tools.NewListTasksTool(service)
	s.AddTool(listTool.Definition(), listTool.Handle)

	completeTool := tools.NewCompleteTaskTool(service)
	s.AddTool(completeTool.Definition(), completeTool.Handle)

	deleteTool := tools.NewDeleteTaskTool(service)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	updateTool := tools.NewUpdateTaskTool(service)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	log.Info("mcp server is running on stdio")
	return server.ServeStdio(s)
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
