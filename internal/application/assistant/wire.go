package assistant

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideHistoryService 从配置展开历史策略参数
func ProvideHistoryService(
	repo assistant.MemoryRepository,
	llm assistant.ChatModel,
	counter assistant.TokenCounter,
	cfg *config.Config,
) *HistoryService {
	return NewHistoryService(
		repo,
		llm,
		counter,
		cfg.LLM.Model,
		cfg.MemoryStrategies.TrimmingWindowSize,
		cfg.MemoryStrategies.SummarizationMaxTokens,
	)
}

// ProvidePostProcessor 从配置展开语料母语
func ProvidePostProcessor(translator assistant.Translator, llm assistant.ChatModel, cfg *config.Config) *PostProcessor {
	return NewPostProcessor(translator, llm, cfg.Translator.NativeLanguage)
}

// ProviderSet 对话应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewRetriever,
	ProvideHistoryService,
	NewHistoryClassifier,
	ProvidePostProcessor,
	NewService,
)
