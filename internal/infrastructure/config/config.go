package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 环境变量键名
const (
	EnvConfigPath      = "AVALIA_CONFIG"
	EnvHTTPPort        = "AVALIA_HTTP_PORT"
	EnvMCPPort         = "AVALIA_MCP_PORT"
	EnvLLMAPIKey       = "AVALIA_LLM_API_KEY"
	EnvEmbeddingAPIKey = "AVALIA_EMBEDDING_API_KEY"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "configs/app.yaml"

// Config 应用配置
type Config struct {
	Server              ServerConfig      `yaml:"server"`
	Database            DatabaseConfig    `yaml:"database"`
	LLM                 LLMConfig         `yaml:"llm"`
	Embedding           EmbeddingConfig   `yaml:"embedding"`
	VectorDB            VectorDBConfig    `yaml:"vectordb"`
	Memory              MemoryConfig      `yaml:"memory"`
	MemoryStrategies    MemoryStrategies  `yaml:"memory_strategies"`
	ReasoningStrategies map[string]string `yaml:"reasoning_strategies"`
	Translator          TranslatorConfig  `yaml:"translator"`
	Prompts             PromptsConfig     `yaml:"prompts"`
}

// PromptsConfig 提示词配置文件位置
type PromptsConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
	MCPPort  string `yaml:"mcp_port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `yaml:"path"` // 留空使用默认路径 ~/.avalia/avalia.db
}

// LLMConfig LLM Chat API 配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` // 可由环境变量覆盖
	Model   string `yaml:"model"`
}

// EmbeddingConfig Embedding API 配置
type EmbeddingConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` // 可由环境变量覆盖
	Model   string `yaml:"model"`
}

// VectorDBConfig 向量数据库配置
type VectorDBConfig struct {
	Host       string  `yaml:"host"`
	Port       int     `yaml:"port"` // gRPC 端口
	Collection string  `yaml:"collection"`
	Threshold  float64 `yaml:"threshold"` // 余弦距离阈值，[0,1]
	NResults   int     `yaml:"n_results"` // 检索结果数量
}

// MemoryConfig 会话记忆存储配置
type MemoryConfig struct {
	Backend   string `yaml:"backend"` // sqlite | redis
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
}

// MemoryStrategies 会话记忆策略配置
type MemoryStrategies struct {
	TrimmingWindowSize     int `yaml:"trimming_window_size"`     // 保留的问答对数
	SummarizationMaxTokens int `yaml:"summarization_max_tokens"` // 摘要触发的 Token 预算
}

// TranslatorConfig 翻译服务配置
type TranslatorConfig struct {
	BaseURL        string `yaml:"base_url"`
	NativeLanguage string `yaml:"native_language"` // 语料的母语（ISO 639-1）
}

// 记忆后端常量
const (
	MemoryBackendSQLite = "sqlite"
	MemoryBackendRedis  = "redis"
)

// Load 从 YAML 文件加载配置
// 配置缺失或非法视为启动错误，直接返回而不降级
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// defaultConfig 创建带默认值的配置
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":19840",
			MCPPort:  ":19841",
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		VectorDB: VectorDBConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "reviews",
			Threshold:  0.3,
			NResults:   5,
		},
		Memory: MemoryConfig{
			Backend:   MemoryBackendSQLite,
			RedisAddr: "localhost:6379",
		},
		MemoryStrategies: MemoryStrategies{
			TrimmingWindowSize:     6,
			SummarizationMaxTokens: 1000,
		},
		Translator: TranslatorConfig{
			NativeLanguage: "pt",
		},
		Prompts: PromptsConfig{
			Path: "configs/prompts.yaml",
		},
	}
}

// NewConfig 从默认位置加载配置
// 路径可通过 AVALIA_CONFIG 环境变量覆盖
func NewConfig() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigPath
	}
	return Load(path)
}

// applyEnvOverrides 应用环境变量覆盖
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = port
	}
	if port := os.Getenv(EnvMCPPort); port != "" {
		c.Server.MCPPort = port
	}
	if key := os.Getenv(EnvLLMAPIKey); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv(EnvEmbeddingAPIKey); key != "" {
		c.Embedding.APIKey = key
	}
}

// validate 校验配置合法性
func (c *Config) validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.VectorDB.Threshold < 0 || c.VectorDB.Threshold > 1 {
		return fmt.Errorf("vectordb.threshold must be in [0,1], got %f", c.VectorDB.Threshold)
	}
	if c.VectorDB.NResults <= 0 {
		return fmt.Errorf("vectordb.n_results must be positive, got %d", c.VectorDB.NResults)
	}
	if c.MemoryStrategies.TrimmingWindowSize <= 0 {
		return fmt.Errorf("memory_strategies.trimming_window_size must be positive, got %d", c.MemoryStrategies.TrimmingWindowSize)
	}
	if c.MemoryStrategies.SummarizationMaxTokens <= 0 {
		return fmt.Errorf("memory_strategies.summarization_max_tokens must be positive, got %d", c.MemoryStrategies.SummarizationMaxTokens)
	}
	if c.Memory.Backend != MemoryBackendSQLite && c.Memory.Backend != MemoryBackendRedis {
		return fmt.Errorf("memory.backend must be sqlite or redis, got %q", c.Memory.Backend)
	}
	return nil
}

// DefaultReasoningInstruction 返回默认推理策略的指令文本
// 未配置默认策略或指令为空时返回空字符串
func (c *Config) DefaultReasoningInstruction() string {
	name := c.ReasoningStrategies["default"]
	if name == "" {
		return ""
	}
	return c.ReasoningStrategies[name]
}

// ReasoningInstruction 按名称返回推理策略指令
func (c *Config) ReasoningInstruction(name string) string {
	return c.ReasoningStrategies[name]
}
