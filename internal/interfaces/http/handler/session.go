package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/interfaces/http/response"
)

// SessionHandler 会话历史处理器
type SessionHandler struct {
	memory assistant.MemoryRepository
	logger *slog.Logger
}

// NewSessionHandler 创建会话历史处理器
func NewSessionHandler(memory assistant.MemoryRepository) *SessionHandler {
	return &SessionHandler{
		memory: memory,
		logger: log.NewModuleLogger("http", "session"),
	}
}

// TurnView 历史消息视图
type TurnView struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// History 获取会话历史
// GET /api/v1/sessions/:session_id/history
func (h *SessionHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")

	turns, err := h.memory.Load(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load session history",
			"session_id", sessionID,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, 500, "failed to load history")
		return
	}

	views := make([]TurnView, len(turns))
	for i, t := range turns {
		views[i] = TurnView{
			Role:      t.Role,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
		}
	}

	response.Success(c, gin.H{
		"session_id": sessionID,
		"messages":   views,
		"count":      len(views),
	})
}

// Clear 清空会话历史（幂等）
// DELETE /api/v1/sessions/:session_id/history
func (h *SessionHandler) Clear(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.memory.Clear(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("Failed to clear session history",
			"session_id", sessionID,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, 500, "failed to clear history")
		return
	}

	response.Success(c, gin.H{"session_id": sessionID})
}
