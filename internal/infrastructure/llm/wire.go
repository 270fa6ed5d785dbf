package llm

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideClient 按配置创建 LLM 客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
}

// ProviderSet LLM 基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
	wire.Bind(new(assistant.ChatModel), new(*Client)),
)
