package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/internal/domain/assistant"
)

func newHistoryService(repo assistant.MemoryRepository, llm assistant.ChatModel, windowSize, maxTokens int) *HistoryService {
	return NewHistoryService(repo, llm, mockCounter{}, "gpt-4", windowSize, maxTokens)
}

func seedTurns(store *memoryStub, sessionID string, pairs int) {
	for i := 0; i < pairs; i++ {
		store.append(sessionID, assistant.RoleUser, fmt.Sprintf("question %d", i))
		store.append(sessionID, assistant.RoleAssistant, fmt.Sprintf("answer %d", i))
	}
}

func TestHistoryService_WindowKeepsTail(t *testing.T) {
	store := newMemoryStub()
	seedTurns(store, "s1", 5) // 10 条消息

	h := newHistoryService(store, &mockChatModel{}, 3, 100000)
	prepared, err := h.Prepare(context.Background(), "s1")
	require.NoError(t, err)

	// window_size=3 保留最后 6 条
	require.Len(t, prepared.Context, 6)
	assert.Equal(t, "question 2", prepared.Context[0].Content)
	assert.Equal(t, "answer 4", prepared.Context[5].Content)
	assert.Equal(t, 10, prepared.RawCount)
}

func TestHistoryService_WindowShorterThanLimit(t *testing.T) {
	store := newMemoryStub()
	seedTurns(store, "s1", 2)

	h := newHistoryService(store, &mockChatModel{}, 6, 100000)
	prepared, err := h.Prepare(context.Background(), "s1")
	require.NoError(t, err)

	assert.Len(t, prepared.Context, 4)
}

func TestHistoryService_LastTurn(t *testing.T) {
	t.Run("至少两条消息时拼接最后两条", func(t *testing.T) {
		store := newMemoryStub()
		store.append("s1", assistant.RoleUser, "u1")
		store.append("s1", assistant.RoleAssistant, "a1")
		store.append("s1", assistant.RoleUser, "u2")

		h := newHistoryService(store, &mockChatModel{}, 6, 100000)
		prepared, err := h.Prepare(context.Background(), "s1")
		require.NoError(t, err)

		assert.Equal(t, "a1\nu2", prepared.LastTurn)
	})

	t.Run("不足两条时为空", func(t *testing.T) {
		store := newMemoryStub()
		store.append("s1", assistant.RoleUser, "only one")

		h := newHistoryService(store, &mockChatModel{}, 6, 100000)
		prepared, err := h.Prepare(context.Background(), "s1")
		require.NoError(t, err)

		assert.Empty(t, prepared.LastTurn)
	})
}

func TestHistoryService_SummarizesOverBudget(t *testing.T) {
	store := newMemoryStub()
	seedTurns(store, "s1", 3)

	llm := &mockChatModel{invoke: func([]assistant.Message) (string, error) {
		return "  they discussed bakeries  ", nil
	}}
	// mockCounter 按字符计数，预算 10 必然超出
	h := newHistoryService(store, llm, 6, 10)

	prepared, err := h.Prepare(context.Background(), "s1")
	require.NoError(t, err)

	require.Len(t, prepared.Context, 1, "摘要后应只剩一条合成消息")
	assert.Equal(t, assistant.RoleUser, prepared.Context[0].Role)
	assert.Equal(t, assistant.SummaryPrefix+"\nthey discussed bakeries", prepared.Context[0].Content)
	assert.Len(t, llm.calls, 1)

	// 摘要是读取视图，不改写存储
	turns, _ := store.Load(context.Background(), "s1")
	assert.Len(t, turns, 6)
}

func TestHistoryService_NoSummaryAtOrUnderBudget(t *testing.T) {
	store := newMemoryStub()
	store.append("s1", assistant.RoleUser, "hi")
	store.append("s1", assistant.RoleAssistant, "olá")

	llm := &mockChatModel{}
	windowed := "hi\nolá"
	h := newHistoryService(store, llm, 6, len([]rune(windowed))) // 恰好等于预算，不触发

	prepared, err := h.Prepare(context.Background(), "s1")
	require.NoError(t, err)

	assert.Len(t, prepared.Context, 2)
	assert.Empty(t, llm.calls, "未超预算不应调用 LLM")
}

func TestHistoryService_SummarizationFailureFallsBack(t *testing.T) {
	store := newMemoryStub()
	seedTurns(store, "s1", 3)

	llm := &mockChatModel{invoke: func([]assistant.Message) (string, error) {
		return "", errors.New("llm quota exceeded")
	}}
	h := newHistoryService(store, llm, 6, 10)

	prepared, err := h.Prepare(context.Background(), "s1")
	require.NoError(t, err)

	// 摘要失败时保留未摘要的窗口历史，绝不为空
	require.Len(t, prepared.Context, 6)
	for _, msg := range prepared.Context {
		assert.False(t, strings.HasPrefix(msg.Content, assistant.SummaryPrefix))
	}
}

func TestHistoryService_LoadFailurePropagates(t *testing.T) {
	store := newMemoryStub()
	store.loadErr = errors.New("database locked")

	h := newHistoryService(store, &mockChatModel{}, 6, 1000)
	_, err := h.Prepare(context.Background(), "s1")
	assert.Error(t, err)
}

func TestHistoryService_EmptySession(t *testing.T) {
	h := newHistoryService(newMemoryStub(), &mockChatModel{}, 6, 1000)

	prepared, err := h.Prepare(context.Background(), "fresh")
	require.NoError(t, err)

	assert.Empty(t, prepared.Context)
	assert.Empty(t, prepared.LastTurn)
	assert.Zero(t, prepared.RawCount)
}
