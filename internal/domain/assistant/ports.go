package assistant

import "context"

// ChatModel LLM 对话客户端接口
// 传输/配额失败时返回错误，由调用方决定降级策略
type ChatModel interface {
	// Invoke 发送有序消息序列，返回模型回复文本
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Embedder 文本向量化接口
// 输入输出等长，维度由具体模型决定
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorSearcher 向量索引查询接口
// 返回按距离升序排列的命中结果（最多 limit 条）
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]SearchHit, error)
}

// Translator 语言检测与翻译接口
type Translator interface {
	// DetectLanguage 返回 ISO 639-1 语言代码，失败时返回 "unknown"
	DetectLanguage(ctx context.Context, text string) (string, error)

	// Translate 翻译文本到目标语言
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// TokenCounter Token 计数接口
type TokenCounter interface {
	// CountTokens 按指定模型家族计算文本的 Token 数量
	// 模型不被识别时回退到通用编码
	CountTokens(text, model string) int
}
