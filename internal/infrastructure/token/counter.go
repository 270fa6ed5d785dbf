package token

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// FallbackEncoding 模型不被识别时使用的通用编码
const FallbackEncoding = "cl100k_base"

// Counter 使用 tiktoken 精确计算 Token 数量
// 按模型名缓存编码器，避免重复加载编码文件
type Counter struct {
	mu        sync.RWMutex
	fallback  *tiktoken.Tiktoken
	encodings map[string]*tiktoken.Tiktoken
}

// NewCounter 创建 Token 计数器
// 预加载通用编码，加载失败视为启动错误
func NewCounter() (*Counter, error) {
	fallback, err := tiktoken.GetEncoding(FallbackEncoding)
	if err != nil {
		return nil, err
	}

	return &Counter{
		fallback:  fallback,
		encodings: make(map[string]*tiktoken.Tiktoken),
	}, nil
}

// CountTokens 按指定模型计算文本的 Token 数量
func (c *Counter) CountTokens(text, model string) int {
	if text == "" {
		return 0
	}

	enc := c.encodingFor(model)
	tokens := enc.Encode(text, nil, nil)
	return len(tokens)
}

// CountTokensBatch 批量计算多个文本的 Token 总数
func (c *Counter) CountTokensBatch(texts []string, model string) int {
	total := 0
	for _, text := range texts {
		total += c.CountTokens(text, model)
	}
	return total
}

// encodingFor 获取模型对应的编码器，未识别的模型回退到通用编码
func (c *Counter) encodingFor(model string) *tiktoken.Tiktoken {
	c.mu.RLock()
	enc, ok := c.encodings[model]
	c.mu.RUnlock()
	if ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc = c.fallback
	}

	c.mu.Lock()
	c.encodings[model] = enc
	c.mu.Unlock()

	return enc
}
