package embedding

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideClient 按配置创建 Embedding 客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.Embedding.BaseURL, cfg.Embedding.APIKey, cfg.Embedding.Model)
}

// ProviderSet Embedding 基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
	wire.Bind(new(assistant.Embedder), new(*Client)),
)
