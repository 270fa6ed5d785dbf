package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avalia/backend/internal/infrastructure/log"
)

// Client 翻译服务客户端（LibreTranslate 兼容 API）
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 创建翻译客户端
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.NewModuleLogger("translate", "client"),
	}
}

// detectRequest 语言检测请求
type detectRequest struct {
	Q string `json:"q"`
}

// detectResult 语言检测结果
type detectResult struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// translateRequest 翻译请求
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// translateResponse 翻译响应
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// DetectLanguage 检测文本语言，返回 ISO 639-1 代码
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	var results []detectResult
	if err := c.post(ctx, "/detect", detectRequest{Q: text}, &results); err != nil {
		return "", fmt.Errorf("language detection failed: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("language detection returned no results")
	}

	c.logger.Debug("Language detected",
		"language", results[0].Language,
		"confidence", results[0].Confidence,
	)

	return results[0].Language, nil
}

// Translate 翻译文本到目标语言（源语言自动检测）
func (c *Client) Translate(ctx context.Context, text, targetLang string) (string, error) {
	var resp translateResponse
	req := translateRequest{
		Q:      text,
		Source: "auto",
		Target: targetLang,
	}
	if err := c.post(ctx, "/translate", req, &resp); err != nil {
		return "", fmt.Errorf("translation to %q failed: %w", targetLang, err)
	}

	return resp.TranslatedText, nil
}

// post 发送 JSON POST 请求并解析响应
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
