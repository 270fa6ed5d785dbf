package handler

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	appAssistant "github.com/avalia/backend/internal/application/assistant"
	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/interfaces/http/response"
)

// defaultSessionID 未指定会话时使用的会话 ID
const defaultSessionID = "default"

// ChatHandler 对话处理器
type ChatHandler struct {
	service *appAssistant.Service
	memory  assistant.MemoryRepository
	logger  *slog.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(service *appAssistant.Service, memory assistant.MemoryRepository) *ChatHandler {
	return &ChatHandler{
		service: service,
		memory:  memory,
		logger:  log.NewModuleLogger("http", "chat"),
	}
}

// ChatRequest 对话请求
type ChatRequest struct {
	SessionID string  `json:"session_id"`
	Query     string  `json:"query" binding:"required"`
	NResults  int     `json:"n_results,omitempty"`  // 为 0 时使用配置默认值
	Threshold float64 `json:"threshold,omitempty"`  // 为 0 时使用配置默认值
}

// ChatResponse 对话响应
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// Chat 处理一轮对话
// POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	ctx := log.WithSessionID(c.Request.Context(), req.SessionID)
	answer, err := h.service.Respond(ctx, req.SessionID, req.Query, req.NResults, req.Threshold)
	if err != nil {
		h.logger.Error("Failed to generate response",
			"session_id", req.SessionID,
			"query", req.Query,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, 500, "failed to generate response")
		return
	}

	// 回答生成成功后才持久化本轮消息，失败的轮次不写入记忆
	if err := h.persistTurn(c, req.SessionID, req.Query, answer); err != nil {
		h.logger.Error("Failed to persist conversation turn",
			"session_id", req.SessionID,
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, 500, "failed to persist conversation")
		return
	}

	response.Success(c, ChatResponse{
		SessionID: req.SessionID,
		Answer:    answer,
	})
}

func (h *ChatHandler) persistTurn(c *gin.Context, sessionID, query, answer string) error {
	ctx := c.Request.Context()
	if err := h.memory.AppendUser(ctx, sessionID, query); err != nil {
		return err
	}
	return h.memory.AppendAssistant(ctx, sessionID, answer)
}
