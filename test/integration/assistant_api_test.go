//go:build integration
// +build integration

// 黑盒测试：服务生命周期、会话历史接口与对话错误路径
// 外部依赖（LLM、向量库）指向不可达端口，验证服务在无外部服务时的行为

package integration

import (
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/test/integration/framework"
)

// TestServerLifecycle_HealthAndSessions 服务启动、健康检查与会话历史接口
func TestServerLifecycle_HealthAndSessions(t *testing.T) {
	framework.RequireServerBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "sessions")
	require.NoError(t, err, "创建测试进程失败")

	require.NoError(t, daemon.Start(), "启动服务失败")
	defer daemon.Stop()

	client := framework.NewAPIClient(daemon.BaseURL())
	require.NoError(t, client.HealthCheck(), "health check 失败")

	// 新会话历史为空
	history, err := client.GetHistory("fresh-session")
	require.NoError(t, err, "获取会话历史失败")
	require.Equal(t, 0, history.Code, "获取历史应成功, message: %s", history.Message)
	assert.Equal(t, "fresh-session", history.Data.SessionID)
	assert.Equal(t, 0, history.Data.Count, "新会话历史应为空")
	assert.Empty(t, history.Data.Messages)

	// 清空不存在的会话是幂等操作
	for i := 0; i < 2; i++ {
		cleared, err := client.ClearHistory("fresh-session")
		require.NoError(t, err, "清空会话失败")
		assert.Equal(t, 0, cleared.Code, "清空会话应成功")
	}
}

// TestChat_ValidationAndGenerationFailure 对话参数校验与生成失败的错误路径
func TestChat_ValidationAndGenerationFailure(t *testing.T) {
	framework.RequireServerBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "chat")
	require.NoError(t, err, "创建测试进程失败")

	require.NoError(t, daemon.Start(), "启动服务失败")
	defer daemon.Stop()

	client := framework.NewAPIClient(daemon.BaseURL())
	require.NoError(t, client.HealthCheck(), "health check 失败")

	// 缺少 query 参数
	resp, status, err := client.ChatRaw(map[string]interface{}{
		"session_id": "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status, "缺少 query 应返回 400")
	assert.NotEqual(t, 0, resp.Code)

	// LLM 不可达时对话返回 500
	chatResp, status, err := client.Chat("s1", "Qual é o melhor restaurante?")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, status, "LLM 不可达应返回 500")
	assert.NotEqual(t, 0, chatResp.Code)

	// 失败的轮次不应写入会话历史
	history, err := client.GetHistory("s1")
	require.NoError(t, err)
	assert.Equal(t, 0, history.Data.Count, "失败的对话不应持久化")
}

// TestSingleInstance_SecondProcessExits 单例锁：重复启动的进程应检测到已有实例并退出
func TestSingleInstance_SecondProcessExits(t *testing.T) {
	framework.RequireServerBinary(t)

	daemon, err := framework.NewTestDaemon(framework.BinaryPath, "singleton")
	require.NoError(t, err, "创建测试进程失败")

	require.NoError(t, daemon.Start(), "启动服务失败")
	defer daemon.Stop()

	// 使用同一配置再启动一个进程
	configPath := filepath.Join(daemon.DataDir, "app.yaml")
	second := exec.Command(framework.BinaryPath)
	second.Env = append(os.Environ(),
		"AVALIA_CONFIG="+configPath,
		"GIN_MODE=test",
	)

	done := make(chan error, 1)
	require.NoError(t, second.Start(), "启动第二个进程失败")
	go func() { done <- second.Wait() }()

	select {
	case err := <-done:
		assert.NoError(t, err, "第二个进程应以退出码 0 退出")
	case <-time.After(15 * time.Second):
		_ = second.Process.Kill()
		t.Fatal("第二个进程未在超时内退出")
	}

	// 原实例不受影响
	client := framework.NewAPIClient(daemon.BaseURL())
	assert.NoError(t, client.HealthCheck(), "原实例应继续可用")
}
