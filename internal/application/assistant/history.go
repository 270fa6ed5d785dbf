package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// summarizationPrompt 历史摘要提示词模板
const summarizationPrompt = `Summarize the following chat history to preserve useful context for the next user query.
Be concise, accurate, and preserve the intent of both questions and answers.

Chat history:
%s`

// PreparedHistory 一轮对话准备好的历史视图
type PreparedHistory struct {
	// Context 本轮发送给 LLM 的历史消息（截断窗口，超预算时为单条摘要消息）
	Context []assistant.Message
	// LastTurn 最近两条原始消息的拼接，原始消息不足两条时为空
	LastTurn string
	// RawCount 存储中的原始消息总数
	RawCount int
}

// HistoryService 会话历史准备服务
// 负责读取时截断窗口与超预算摘要，不修改存储中的原始序列
type HistoryService struct {
	repo       assistant.MemoryRepository
	llm        assistant.ChatModel
	counter    assistant.TokenCounter
	model      string
	windowSize int
	maxTokens  int
	logger     *slog.Logger
}

// NewHistoryService 创建历史准备服务
func NewHistoryService(
	repo assistant.MemoryRepository,
	llm assistant.ChatModel,
	counter assistant.TokenCounter,
	model string,
	windowSize int,
	maxTokens int,
) *HistoryService {
	return &HistoryService{
		repo:       repo,
		llm:        llm,
		counter:    counter,
		model:      model,
		windowSize: windowSize,
		maxTokens:  maxTokens,
		logger:     log.NewModuleLogger("assistant", "history"),
	}
}

// Prepare 加载会话历史并应用截断与摘要策略
// 存储读取失败时返回错误；摘要失败时回退到未摘要的窗口历史
func (h *HistoryService) Prepare(ctx context.Context, sessionID string) (*PreparedHistory, error) {
	turns, err := h.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	raw := make([]assistant.Message, len(turns))
	for i, t := range turns {
		raw[i] = assistant.Message{Role: t.Role, Content: t.Content}
	}

	// 取尾部 windowSize*2 条（windowSize 个问答对），只是读取视图
	windowed := raw
	if limit := h.windowSize * 2; len(windowed) > limit {
		windowed = windowed[len(windowed)-limit:]
	}
	h.logger.Debug("Loaded history window",
		"session_id", sessionID,
		"raw_count", len(raw),
		"windowed", len(windowed),
	)

	prepared := &PreparedHistory{
		Context:  windowed,
		RawCount: len(raw),
		LastTurn: lastTurnOf(raw),
	}

	chatText := joinContents(windowed)
	total := h.counter.CountTokens(chatText, h.model)
	if total > h.maxTokens {
		h.logger.Info("Chat history exceeds token budget, summarizing",
			"session_id", sessionID,
			"tokens", total,
			"budget", h.maxTokens,
		)
		prepared.Context = h.summarize(ctx, sessionID, windowed, chatText)
	}

	return prepared, nil
}

// summarize 请求 LLM 将窗口历史压缩为单条摘要消息
// 失败时原样返回未摘要的窗口历史，绝不把历史降级为空
func (h *HistoryService) summarize(ctx context.Context, sessionID string, windowed []assistant.Message, chatText string) []assistant.Message {
	prompt := fmt.Sprintf(summarizationPrompt, chatText)

	summary, err := h.llm.Invoke(ctx, []assistant.Message{{Role: assistant.RoleUser, Content: prompt}})
	if err != nil {
		h.logger.Warn("Failed to summarize chat history, using windowed history",
			"session_id", sessionID,
			"error", err,
		)
		return windowed
	}

	h.logger.Info("Chat history summarized", "session_id", sessionID)
	return []assistant.Message{{
		Role:    assistant.RoleUser,
		Content: assistant.SummaryPrefix + "\n" + strings.TrimSpace(summary),
	}}
}

// lastTurnOf 拼接最近两条原始消息，不足两条时返回空串
func lastTurnOf(raw []assistant.Message) string {
	if len(raw) < 2 {
		return ""
	}
	return joinContents(raw[len(raw)-2:])
}

func joinContents(messages []assistant.Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n")
}
