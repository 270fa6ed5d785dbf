package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// PromptSource 提供当前生效的提示词配置
// 由配置热重载监听器实现
type PromptSource interface {
	Spec() *assistant.PromptSpec
}

// Service RAG 对话编排服务
// 串联检索、历史准备、历史依赖判定、提示词组装、生成与后处理
// 所有依赖在构造时显式注入，不依赖任何全局状态
type Service struct {
	retriever  *Retriever
	history    *HistoryService
	classifier *HistoryClassifier
	post       *PostProcessor
	llm        assistant.ChatModel
	prompts    PromptSource
	cfg        *config.Config
	logger     *slog.Logger
}

// NewService 创建对话编排服务
func NewService(
	retriever *Retriever,
	history *HistoryService,
	classifier *HistoryClassifier,
	post *PostProcessor,
	llm assistant.ChatModel,
	prompts PromptSource,
	cfg *config.Config,
) *Service {
	return &Service{
		retriever:  retriever,
		history:    history,
		classifier: classifier,
		post:       post,
		llm:        llm,
		prompts:    prompts,
		cfg:        cfg,
		logger:     log.NewModuleLogger("assistant", "service"),
	}
}

// Search 只读检索，不生成回答
// nResults/threshold 的解析规则与 Respond 一致
func (s *Service) Search(ctx context.Context, query string, nResults int, threshold float64) []string {
	if nResults <= 0 {
		nResults = s.cfg.VectorDB.NResults
	}
	if threshold <= 0 {
		threshold = s.cfg.VectorDB.Threshold
	}
	return s.retriever.Retrieve(ctx, query, nResults, threshold)
}

// Respond 为一轮用户提问生成回答
// nResults/threshold 为正时生效，否则回退到配置默认值
// 检索、历史判定、摘要失败均局部降级；生成与翻译失败向上传播
// 本方法不写入会话记忆，新一轮的 user/assistant 消息由调用方在成功后持久化
func (s *Service) Respond(ctx context.Context, sessionID, query string, nResults int, threshold float64) (string, error) {
	s.logger.Info("Generating response", "session_id", sessionID, "query", query)

	if nResults <= 0 {
		nResults = s.cfg.VectorDB.NResults
	}
	if threshold <= 0 {
		threshold = s.cfg.VectorDB.Threshold
	}

	detectedLang := s.post.DetectLanguage(ctx, query)
	s.logger.Info("Detected language", "session_id", sessionID, "lang", detectedLang)

	relevant := s.retriever.Retrieve(ctx, query, nResults, threshold)

	prepared, err := s.history.Prepare(ctx, sessionID)
	if err != nil {
		return "", err
	}

	useHistory := s.classifier.NeedsHistory(ctx, query, prepared.LastTurn)

	userBlock := buildUserBlock(query, prepared.LastTurn, useHistory)

	prompt := BuildPrompt(s.prompts.Spec(), relevant, userBlock, s.cfg.DefaultReasoningInstruction())

	messages := append(append([]assistant.Message{}, prepared.Context...),
		assistant.Message{Role: assistant.RoleUser, Content: prompt})

	s.logger.Info("Sending context-enriched prompt to LLM",
		"session_id", sessionID,
		"history_messages", len(prepared.Context),
		"relevant_reviews", len(relevant),
		"use_history", useHistory,
	)
	response, err := s.llm.Invoke(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return s.post.Finalize(ctx, response, detectedLang)
}

// buildUserBlock 构造提示词末段的用户上下文块
// 依赖历史时携带最近一轮问答，否则只带当前问题
func buildUserBlock(query, lastTurn string, useHistory bool) string {
	var sb strings.Builder
	if useHistory {
		sb.WriteString("Histórico:\n")
		sb.WriteString(lastTurn)
		sb.WriteString("\n\nNova pergunta:\n")
		sb.WriteString(query)
	} else {
		sb.WriteString("Pergunta:\n")
		sb.WriteString(query)
	}
	return sb.String()
}
