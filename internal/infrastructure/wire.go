package infrastructure

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/infrastructure/config"
	"github.com/avalia/backend/internal/infrastructure/embedding"
	"github.com/avalia/backend/internal/infrastructure/llm"
	"github.com/avalia/backend/internal/infrastructure/storage"
	"github.com/avalia/backend/internal/infrastructure/token"
	"github.com/avalia/backend/internal/infrastructure/translate"
	"github.com/avalia/backend/internal/infrastructure/vector"
	"github.com/avalia/backend/internal/infrastructure/watcher"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	llm.ProviderSet,
	embedding.ProviderSet,
	translate.ProviderSet,
	token.ProviderSet,
	vector.ProviderSet,
	storage.ProviderSet,
	watcher.ProviderSet,
)
