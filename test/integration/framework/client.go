//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// --- 通用响应结构 ---

// APIResponse 通用 API 响应（复用 response.Response 的 JSON 结构）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// --- 各接口 Data 结构（与 handler 返回的 JSON 对应） ---

// ChatData POST /chat 响应 data
type ChatData struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// TurnMessage 历史消息
type TurnMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// HistoryData GET /sessions/:id/history 响应 data
type HistoryData struct {
	SessionID string        `json:"session_id"`
	Messages  []TurnMessage `json:"messages"`
	Count     int           `json:"count"`
}

// ClearData DELETE /sessions/:id/history 响应 data
type ClearData struct {
	SessionID string `json:"session_id"`
}

// do 执行请求并统一处理成功/错误响应的 JSON 解析
// resty 的 SetResult 仅在 2xx 时解析，SetError 在 4xx/5xx 时解析
// 由于两者的 code/message 字段一致，用同类型接收即可
func do[T any](r *resty.Request, result *APIResponse[T]) *resty.Request {
	return r.SetResult(result).SetError(result)
}

// --- 健康检查 ---

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// --- 对话 ---

// Chat 发起一轮对话
func (c *APIClient) Chat(sessionID, query string) (*APIResponse[ChatData], int, error) {
	var result APIResponse[ChatData]
	resp, err := do(c.client.R().SetBody(map[string]string{
		"session_id": sessionID,
		"query":      query,
	}), &result).
		Post("/api/v1/chat")
	if err != nil {
		return &result, 0, err
	}
	return &result, resp.StatusCode(), nil
}

// ChatRaw 发送任意请求体的对话请求（用于校验参数错误）
func (c *APIClient) ChatRaw(body map[string]interface{}) (*APIResponse[ChatData], int, error) {
	var result APIResponse[ChatData]
	resp, err := do(c.client.R().SetBody(body), &result).
		Post("/api/v1/chat")
	if err != nil {
		return &result, 0, err
	}
	return &result, resp.StatusCode(), nil
}

// --- 会话历史 ---

// GetHistory 获取会话历史
func (c *APIClient) GetHistory(sessionID string) (*APIResponse[HistoryData], error) {
	var result APIResponse[HistoryData]
	_, err := do(c.client.R(), &result).
		Get(fmt.Sprintf("/api/v1/sessions/%s/history", sessionID))
	return &result, err
}

// ClearHistory 清空会话历史
func (c *APIClient) ClearHistory(sessionID string) (*APIResponse[ClearData], error) {
	var result APIResponse[ClearData]
	_, err := do(c.client.R(), &result).
		Delete(fmt.Sprintf("/api/v1/sessions/%s/history", sessionID))
	return &result, err
}
