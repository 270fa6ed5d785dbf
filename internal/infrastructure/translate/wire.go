package translate

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideClient 按配置创建翻译客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.Translator.BaseURL)
}

// ProviderSet 翻译基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
	wire.Bind(new(assistant.Translator), new(*Client)),
)
