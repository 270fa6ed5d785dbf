package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appAssistant "github.com/avalia/backend/internal/application/assistant"
	"github.com/avalia/backend/internal/domain/assistant"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service *appAssistant.Service
	memory  assistant.MemoryRepository
}

// NewServer 创建 MCP 服务器
func NewServer(service *appAssistant.Service, memory assistant.MemoryRepository) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "avalia-backend",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	mcpServer := &MCPServer{
		server:  server,
		service: service,
		memory:  memory,
	}

	// 注册工具：ask_reviews
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_reviews",
		Description: "Ask a natural-language question about customer reviews. Parameters: query (string, required) - the question; session_id (string, optional) - conversation session, defaults to \"default\". Returns: the generated answer.",
	}, mcpServer.askReviewsTool)

	// 注册工具：search_reviews
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_reviews",
		Description: "Search the review index without generating an answer. Parameters: query (string, required) - search text; n_results (int, optional) - max results; threshold (float, optional) - max cosine distance in [0,1]. Returns: formatted review passages.",
	}, mcpServer.searchReviewsTool)

	// 注册工具：clear_history
	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_history",
		Description: "Clear the conversation history of a session. Parameters: session_id (string, optional) - session to clear, defaults to \"default\". Idempotent.",
	}, mcpServer.clearHistoryTool)

	// 创建 SSE Handler
	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}

// Start 启动服务器（HTTP/SSE 模式）
// MCP 服务器通过 HTTP Handler 提供服务，生命周期由 HTTP 服务器统一管理
func (s *MCPServer) Start() error {
	return nil
}

// Stop 停止服务器
func (s *MCPServer) Stop() error {
	return nil
}
