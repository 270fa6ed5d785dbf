package assistant

// 消息角色常量
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SummaryPrefix 合成摘要消息的固定前缀
// 下游消费者通过该前缀区分合成历史与原始历史
const SummaryPrefix = "Summary of previous conversation:"

// Message 发送给 LLM 的一条消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationTurn 会话中的一条历史消息
// 同一会话的消息构成按插入顺序排列的只追加序列
type ConversationTurn struct {
	ID        int64  // 存储层自增 ID
	SessionID string // 会话 ID
	Role      string // user 或 assistant
	Content   string // 消息内容
	CreatedAt int64  // Unix 时间戳
}

// SearchHit 向量检索命中结果
// Distance 为余弦距离（越小越相似），保持索引返回的升序排名
type SearchHit struct {
	Text     string            // 片段文本
	Distance float64           // 余弦距离
	Payload  map[string]string // 片段携带的元数据
}
