package assistant

import "context"

// MemoryRepository 会话记忆仓库接口
// 按会话 ID 持久化只追加的消息序列，加载时保持插入顺序
type MemoryRepository interface {
	// Load 加载一个会话的全部历史消息（插入顺序）
	Load(ctx context.Context, sessionID string) ([]ConversationTurn, error)

	// AppendUser 追加一条用户消息
	AppendUser(ctx context.Context, sessionID, content string) error

	// AppendAssistant 追加一条助手消息
	AppendAssistant(ctx context.Context, sessionID, content string) error

	// Clear 清空会话历史（幂等：清空空会话不报错）
	Clear(ctx context.Context, sessionID string) error
}
