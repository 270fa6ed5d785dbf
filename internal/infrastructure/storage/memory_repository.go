package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avalia/backend/internal/domain/assistant"
)

// 确保 MemoryRepositoryImpl 实现了 assistant.MemoryRepository 接口
var _ assistant.MemoryRepository = (*MemoryRepositoryImpl)(nil)

// MemoryRepositoryImpl 基于 SQLite 的会话记忆仓库
type MemoryRepositoryImpl struct {
	db *sql.DB
}

// NewMemoryRepository 创建会话记忆仓库实例
func NewMemoryRepository(db *sql.DB) *MemoryRepositoryImpl {
	return &MemoryRepositoryImpl{db: db}
}

// Load 加载一个会话的全部历史消息（插入顺序）
func (r *MemoryRepositoryImpl) Load(ctx context.Context, sessionID string) ([]assistant.ConversationTurn, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM message_store
		WHERE session_id = ?
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	defer rows.Close()

	var turns []assistant.ConversationTurn
	for rows.Next() {
		var turn assistant.ConversationTurn
		if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}

	return turns, nil
}

// AppendUser 追加一条用户消息
func (r *MemoryRepositoryImpl) AppendUser(ctx context.Context, sessionID, content string) error {
	return r.append(ctx, sessionID, assistant.RoleUser, content)
}

// AppendAssistant 追加一条助手消息
func (r *MemoryRepositoryImpl) AppendAssistant(ctx context.Context, sessionID, content string) error {
	return r.append(ctx, sessionID, assistant.RoleAssistant, content)
}

// append 追加一条消息
func (r *MemoryRepositoryImpl) append(ctx context.Context, sessionID, role, content string) error {
	query := `
		INSERT INTO message_store (session_id, role, content, created_at)
		VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, sessionID, role, content, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to append %s message to session %s: %w", role, sessionID, err)
	}

	return nil
}

// Clear 清空会话历史（幂等）
func (r *MemoryRepositoryImpl) Clear(ctx context.Context, sessionID string) error {
	query := `DELETE FROM message_store WHERE session_id = ?`

	_, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}

	return nil
}
