package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultSessionID 未指定会话时使用的会话 ID
const defaultSessionID = "default"

// AskReviewsInput ask_reviews 工具输入
type AskReviewsInput struct {
	Query     string `json:"query" jsonschema:"the question to answer"`
	SessionID string `json:"session_id,omitempty" jsonschema:"conversation session id"`
}

// AskReviewsOutput ask_reviews 工具输出
type AskReviewsOutput struct {
	SessionID string `json:"session_id" jsonschema:"session the answer belongs to"`
	Answer    string `json:"answer" jsonschema:"generated answer"`
}

// askReviewsTool 回答关于评论语料的问题
func (s *MCPServer) askReviewsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AskReviewsInput,
) (*mcp.CallToolResult, AskReviewsOutput, error) {
	if input.Query == "" {
		return nil, AskReviewsOutput{}, fmt.Errorf("query is required")
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	answer, err := s.service.Respond(ctx, sessionID, input.Query, 0, 0)
	if err != nil {
		return nil, AskReviewsOutput{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	// 与 HTTP 入口一致：回答成功后持久化本轮消息
	if err := s.memory.AppendUser(ctx, sessionID, input.Query); err != nil {
		return nil, AskReviewsOutput{}, fmt.Errorf("failed to persist turn: %w", err)
	}
	if err := s.memory.AppendAssistant(ctx, sessionID, answer); err != nil {
		return nil, AskReviewsOutput{}, fmt.Errorf("failed to persist turn: %w", err)
	}

	return nil, AskReviewsOutput{SessionID: sessionID, Answer: answer}, nil
}

// SearchReviewsInput search_reviews 工具输入
type SearchReviewsInput struct {
	Query     string  `json:"query" jsonschema:"search text"`
	NResults  int     `json:"n_results,omitempty" jsonschema:"max results, 0 uses the configured default"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"max cosine distance in [0,1], 0 uses the configured default"`
}

// SearchReviewsOutput search_reviews 工具输出
type SearchReviewsOutput struct {
	Results []string `json:"results" jsonschema:"formatted review passages"`
	Count   int      `json:"count" jsonschema:"number of results"`
}

// searchReviewsTool 只读检索评论索引
func (s *MCPServer) searchReviewsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SearchReviewsInput,
) (*mcp.CallToolResult, SearchReviewsOutput, error) {
	if input.Query == "" {
		return nil, SearchReviewsOutput{}, fmt.Errorf("query is required")
	}

	results := s.service.Search(ctx, input.Query, input.NResults, input.Threshold)
	return nil, SearchReviewsOutput{Results: results, Count: len(results)}, nil
}

// ClearHistoryInput clear_history 工具输入
type ClearHistoryInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"session to clear"`
}

// ClearHistoryOutput clear_history 工具输出
type ClearHistoryOutput struct {
	SessionID string `json:"session_id" jsonschema:"cleared session id"`
	Cleared   bool   `json:"cleared" jsonschema:"whether the operation completed"`
}

// clearHistoryTool 清空会话历史
func (s *MCPServer) clearHistoryTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ClearHistoryInput,
) (*mcp.CallToolResult, ClearHistoryOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	if err := s.memory.Clear(ctx, sessionID); err != nil {
		return nil, ClearHistoryOutput{}, fmt.Errorf("failed to clear history: %w", err)
	}
	return nil, ClearHistoryOutput{SessionID: sessionID, Cleared: true}, nil
}
