package vector

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideManager 按配置创建 Qdrant 连接管理器
func ProvideManager(cfg *config.Config) *Manager {
	return NewManager(cfg.VectorDB.Host, cfg.VectorDB.Port, cfg.VectorDB.Collection)
}

// ProviderSet 向量检索基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideManager,
	NewSearcher,
	wire.Bind(new(assistant.VectorSearcher), new(*Searcher)),
)
