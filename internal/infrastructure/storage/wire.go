package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/wire"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// ProvideDB 按配置打开 SQLite 数据库
func ProvideDB(cfg *config.Config) (*sql.DB, error) {
	return OpenDB(cfg.Database.Path)
}

// ProvideMemoryRepository 按配置选择会话记忆后端
// 未知后端视为启动错误
func ProvideMemoryRepository(cfg *config.Config, db *sql.DB) (assistant.MemoryRepository, error) {
	switch cfg.Memory.Backend {
	case config.MemoryBackendSQLite:
		return NewMemoryRepository(db), nil
	case config.MemoryBackendRedis:
		repo, err := NewRedisMemoryRepository(cfg.Memory.RedisAddr, "", cfg.Memory.RedisDB)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown memory backend: %s", cfg.Memory.Backend)
	}
}

// ProviderSet 存储基础设施 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,
	ProvideMemoryRepository,
)
