//go:build integration
// +build integration

// TestDaemon 管理独立 avalia-server 进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name     string // 角色名称
	HTTPPort int    // HTTP 端口
	MCPPort  int    // MCP 端口
	DataDir  string // 数据目录（隔离）

	cmd     *exec.Cmd
	baseURL string
}

// appConfigTemplate 写入隔离数据目录的应用配置
// LLM 与向量库指向不可达端口：health、会话历史接口不依赖外部服务，
// 对话接口在该配置下验证生成失败的错误路径
const appConfigTemplate = `server:
  http_port: ":%d"
  mcp_port: ":%d"
database:
  path: "%s"
llm:
  base_url: "http://localhost:1"
  model: "test-model"
embedding:
  base_url: "http://localhost:1"
  model: "test-embedding"
vectordb:
  host: "localhost"
  port: 1
  collection: "reviews_test"
  threshold: 0.3
  n_results: 5
memory:
  backend: "sqlite"
memory_strategies:
  trimming_window_size: 6
  summarization_max_tokens: 1000
translator:
  base_url: "http://localhost:1"
  native_language: "pt"
prompts:
  path: "%s"
`

const promptConfig = `rag_assistant_prompt:
  role: You answer questions about places based on customer reviews.
  style_or_tone:
    - Be concise.
  instruction: Use the reviews in the context to answer.
  output_constraints:
    - Do not invent reviews.
  output_format:
    - Use Markdown.
`

// NewTestDaemon 创建测试守护进程
func NewTestDaemon(binaryPath, name string) (*TestDaemon, error) {
	// 分配空闲端口
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}
	mcpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate MCP port: %w", err)
	}

	// 创建隔离的数据目录
	dataDir, err := os.MkdirTemp("", fmt.Sprintf("avalia-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
		MCPPort:  mcpPort,
		DataDir:  dataDir,
		baseURL:  fmt.Sprintf("http://localhost:%d", httpPort),
	}

	// 写入隔离配置
	promptPath := filepath.Join(dataDir, "prompts.yaml")
	if err := os.WriteFile(promptPath, []byte(promptConfig), 0644); err != nil {
		return nil, fmt.Errorf("failed to write prompt config: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memory.db")
	configPath := filepath.Join(dataDir, "app.yaml")
	configData := fmt.Sprintf(appConfigTemplate, httpPort, mcpPort, dbPath, promptPath)
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		return nil, fmt.Errorf("failed to write app config: %w", err)
	}

	// 构建进程命令
	d.cmd = exec.Command(binaryPath)
	d.cmd.Env = append(os.Environ(),
		fmt.Sprintf("AVALIA_CONFIG=%s", configPath),
		"GIN_MODE=test",
	)
	d.cmd.Stdout = os.Stdout
	d.cmd.Stderr = os.Stderr

	return d, nil
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	// 等待 health 端点就绪
	return d.waitForReady(30 * time.Second)
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	return d.StopWithCleanup(true)
}

// StopWithCleanup 停止守护进程，可选择是否清理数据目录
func (d *TestDaemon) StopWithCleanup(cleanup bool) error {
	if d.cmd.Process != nil {
		// 发送关闭信号
		_ = d.cmd.Process.Signal(os.Interrupt)

		// 等待进程退出（最多 5 秒）
		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
			// 正常退出
		case <-time.After(5 * time.Second):
			// 强制杀进程
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	// 可选清理数据目录
	if cleanup {
		return os.RemoveAll(d.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// Restart 使用同一数据目录重新启动进程（用于持久化场景）
func (d *TestDaemon) Restart() error {
	configPath := filepath.Join(d.DataDir, "app.yaml")
	d.cmd = exec.Command(d.cmd.Path)
	d.cmd.Env = append(os.Environ(),
		fmt.Sprintf("AVALIA_CONFIG=%s", configPath),
		"GIN_MODE=test",
	)
	d.cmd.Stdout = os.Stdout
	d.cmd.Stderr = os.Stderr
	return d.Start()
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
