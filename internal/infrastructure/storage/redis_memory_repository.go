package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avalia/backend/internal/domain/assistant"
)

// 确保 RedisMemoryRepository 实现了 assistant.MemoryRepository 接口
var _ assistant.MemoryRepository = (*RedisMemoryRepository)(nil)

// RedisMemoryRepository 基于 Redis 列表的会话记忆仓库
// 每个会话对应一个 key，消息按 RPUSH 顺序存储
type RedisMemoryRepository struct {
	client *redis.Client
}

// NewRedisMemoryRepository 创建 Redis 会话记忆仓库
func NewRedisMemoryRepository(addr, password string, db int) (*RedisMemoryRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 存储不可达视为启动错误
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisMemoryRepository{client: client}, nil
}

// storedTurn Redis 中序列化的消息
type storedTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// sessionKey 会话对应的 Redis key
func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:messages", sessionID)
}

// Load 加载一个会话的全部历史消息（插入顺序）
func (r *RedisMemoryRepository) Load(ctx context.Context, sessionID string) ([]assistant.ConversationTurn, error) {
	values, err := r.client.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	turns := make([]assistant.ConversationTurn, 0, len(values))
	for i, value := range values {
		var stored storedTurn
		if err := json.Unmarshal([]byte(value), &stored); err != nil {
			return nil, fmt.Errorf("failed to decode turn %d of session %s: %w", i, sessionID, err)
		}
		turns = append(turns, assistant.ConversationTurn{
			ID:        int64(i),
			SessionID: sessionID,
			Role:      stored.Role,
			Content:   stored.Content,
			CreatedAt: stored.CreatedAt,
		})
	}

	return turns, nil
}

// AppendUser 追加一条用户消息
func (r *RedisMemoryRepository) AppendUser(ctx context.Context, sessionID, content string) error {
	return r.append(ctx, sessionID, assistant.RoleUser, content)
}

// AppendAssistant 追加一条助手消息
func (r *RedisMemoryRepository) AppendAssistant(ctx context.Context, sessionID, content string) error {
	return r.append(ctx, sessionID, assistant.RoleAssistant, content)
}

// append 追加一条消息
func (r *RedisMemoryRepository) append(ctx context.Context, sessionID, role, content string) error {
	data, err := json.Marshal(storedTurn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode turn: %w", err)
	}

	if err := r.client.RPush(ctx, sessionKey(sessionID), data).Err(); err != nil {
		return fmt.Errorf("failed to append %s message to session %s: %w", role, sessionID, err)
	}

	return nil
}

// Clear 清空会话历史（幂等：DEL 不存在的 key 不报错）
func (r *RedisMemoryRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}

// Close 关闭 Redis 连接
func (r *RedisMemoryRepository) Close() error {
	return r.client.Close()
}
