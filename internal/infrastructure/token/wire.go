package token

import (
	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
)

// ProviderSet Token 计数基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	NewCounter,
	wire.Bind(new(assistant.TokenCounter), new(*Counter)),
)
