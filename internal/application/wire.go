package application

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/application/assistant"
)

// ProviderSet Application 层总 ProviderSet
// ingest 包仅由 indexer 命令行工具使用，不进入服务进程的依赖图
var ProviderSet = wire.NewSet(
	assistant.ProviderSet,
)
