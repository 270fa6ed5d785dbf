package watcher

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvidePromptWatcher 按配置创建提示词监听器
func ProvidePromptWatcher(cfg *config.Config) (*PromptWatcher, error) {
	return NewPromptWatcher(cfg.Prompts.Path)
}

// ProviderSet 配置监听基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvidePromptWatcher,
)
