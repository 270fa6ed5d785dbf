package wire

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"log/slog"

	applog "github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/infrastructure/vector"
	"github.com/avalia/backend/internal/infrastructure/watcher"
	"github.com/avalia/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer    *interfaces.HTTPServer
	MCPServer     *interfaces.MCPServer
	vectorManager *vector.Manager
	promptWatcher *watcher.PromptWatcher
	db            *sql.DB
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	vectorManager *vector.Manager,
	promptWatcher *watcher.PromptWatcher,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:    httpServer,
		MCPServer:     mcpServer,
		vectorManager: vectorManager,
		promptWatcher: promptWatcher,
		db:            db,
		logger:        applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting avalia backend application")

	// 连接 Qdrant；失败不阻止启动，检索会按轮降级为空上下文
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.vectorManager.Connect(ctx); err != nil {
		a.logger.Error("Failed to connect to vector index, retrieval will degrade",
			"error", err,
		)
	}

	// 启动提示词热重载
	if err := a.promptWatcher.Start(); err != nil {
		return err
	}

	if err := a.MCPServer.Start(); err != nil {
		return err
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
		}
	}()

	a.logger.Info("Avalia backend application started successfully")
	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping avalia backend application")

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Error stopping HTTP server", "error", err)
	}
	if err := a.MCPServer.Stop(); err != nil {
		a.logger.Error("Error stopping MCP server", "error", err)
	}
	if err := a.promptWatcher.Stop(); err != nil {
		a.logger.Error("Error stopping prompt watcher", "error", err)
	}
	if err := a.vectorManager.Close(); err != nil {
		a.logger.Error("Error closing vector index connection", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database", "error", err)
	}

	return nil
}
