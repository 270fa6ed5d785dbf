package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempConfig 写入临时配置文件
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validConfig = `
llm:
  model: gpt-4o-mini
vectordb:
  threshold: 0.3
  n_results: 5
  collection: reviews
memory_strategies:
  trimming_window_size: 6
  summarization_max_tokens: 1000
reasoning_strategies:
  default: CoT
  CoT: "Pense passo a passo antes de responder."
translator:
  native_language: pt
`

func TestLoad_Valid(t *testing.T) {
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvMCPPort, "")

	cfg, err := Load(writeTempConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 0.3, cfg.VectorDB.Threshold)
	assert.Equal(t, 5, cfg.VectorDB.NResults)
	assert.Equal(t, "reviews", cfg.VectorDB.Collection)
	assert.Equal(t, 6, cfg.MemoryStrategies.TrimmingWindowSize)
	assert.Equal(t, "pt", cfg.Translator.NativeLanguage)
	assert.Equal(t, ":19840", cfg.Server.HTTPPort, "未设置的端口应使用默认值")
	assert.Equal(t, MemoryBackendSQLite, cfg.Memory.Backend)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv(EnvHTTPPort, ":29840")
	t.Setenv(EnvLLMAPIKey, "sk-from-env")

	cfg, err := Load(writeTempConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":29840", cfg.Server.HTTPPort)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "配置文件缺失应在启动时报错")
}

func TestLoad_InvalidThreshold(t *testing.T) {
	content := `
llm:
  model: gpt-4o-mini
vectordb:
  threshold: 1.5
  n_results: 5
`
	_, err := Load(writeTempConfig(t, content))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "threshold")
}

func TestLoad_MissingModel(t *testing.T) {
	content := `
vectordb:
  threshold: 0.3
  n_results: 5
`
	_, err := Load(writeTempConfig(t, content))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "llm.model")
}

func TestLoad_InvalidMemoryBackend(t *testing.T) {
	content := validConfig + `
memory:
  backend: mongodb
`
	_, err := Load(writeTempConfig(t, content))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "memory.backend")
}

func TestConfig_ReasoningInstruction(t *testing.T) {
	cfg, err := Load(writeTempConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "Pense passo a passo antes de responder.", cfg.DefaultReasoningInstruction())
	assert.Equal(t, "Pense passo a passo antes de responder.", cfg.ReasoningInstruction("CoT"))
	assert.Empty(t, cfg.ReasoningInstruction("ReAct"), "未配置的策略返回空指令")
}
