package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// historyCheckPrompt 历史依赖判定提示词
// 语料为葡萄牙语，判定也用葡萄牙语进行，期望模型回答 SIM 或 NÃO
const historyCheckPrompt = `O usuário fez a pergunta: "%s"

Ela depende do seguinte histórico para ser compreendida?
Histórico:
"%s"

Responda apenas com "SIM" ou "NÃO".`

// HistoryClassifier 判定当前问题是否依赖上一轮对话
type HistoryClassifier struct {
	llm    assistant.ChatModel
	logger *slog.Logger
}

// NewHistoryClassifier 创建历史依赖分类器
func NewHistoryClassifier(llm assistant.ChatModel) *HistoryClassifier {
	return &HistoryClassifier{
		llm:    llm,
		logger: log.NewModuleLogger("assistant", "classifier"),
	}
}

// NeedsHistory 判定 query 是否依赖 lastTurn 才能被理解
// lastTurn 为空（不足两条原始消息）时直接返回 false，不调用 LLM
// LLM 调用失败时保守返回 false，不中断本轮对话
func (c *HistoryClassifier) NeedsHistory(ctx context.Context, query, lastTurn string) bool {
	if lastTurn == "" {
		return false
	}

	prompt := fmt.Sprintf(historyCheckPrompt, query, lastTurn)

	answer, err := c.llm.Invoke(ctx, []assistant.Message{{Role: assistant.RoleUser, Content: prompt}})
	if err != nil {
		c.logger.Warn("Failed to check history dependency", "query", query, "error", err)
		return false
	}

	return strings.Contains(strings.ToLower(strings.TrimSpace(answer)), "sim")
}
