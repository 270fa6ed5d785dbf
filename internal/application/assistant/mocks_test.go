package assistant

import (
	"context"
	"errors"

	"github.com/avalia/backend/internal/domain/assistant"
)

// mockChatModel 可编程的 LLM 客户端，记录每次调用的消息
type mockChatModel struct {
	invoke func(messages []assistant.Message) (string, error)
	calls  [][]assistant.Message
}

func (m *mockChatModel) Invoke(_ context.Context, messages []assistant.Message) (string, error) {
	m.calls = append(m.calls, messages)
	if m.invoke == nil {
		return "", errors.New("no invoke handler configured")
	}
	return m.invoke(messages)
}

// lastPrompt 返回最近一次调用的最后一条消息内容
func (m *mockChatModel) lastPrompt() string {
	if len(m.calls) == 0 {
		return ""
	}
	last := m.calls[len(m.calls)-1]
	return last[len(last)-1].Content
}

type mockEmbedder struct {
	vectors [][]float32
	err     error
}

func (m *mockEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.vectors != nil {
		return m.vectors, nil
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

type mockSearcher struct {
	hits []assistant.SearchHit
	err  error
}

func (m *mockSearcher) Search(_ context.Context, _ []float32, _ int) ([]assistant.SearchHit, error) {
	return m.hits, m.err
}

// mockTranslator 固定语言检测结果，翻译时给文本加可断言的标记
type mockTranslator struct {
	lang      string
	detectErr error
	transErr  error
}

func (m *mockTranslator) DetectLanguage(_ context.Context, _ string) (string, error) {
	return m.lang, m.detectErr
}

func (m *mockTranslator) Translate(_ context.Context, text, targetLang string) (string, error) {
	if m.transErr != nil {
		return "", m.transErr
	}
	return "translated[" + targetLang + "]:" + text, nil
}

// mockCounter 以字符数近似 Token 数
type mockCounter struct{}

func (mockCounter) CountTokens(text, _ string) int {
	return len([]rune(text))
}

// memoryStub 进程内的会话记忆实现
type memoryStub struct {
	turns   map[string][]assistant.ConversationTurn
	loadErr error
}

func newMemoryStub() *memoryStub {
	return &memoryStub{turns: map[string][]assistant.ConversationTurn{}}
}

func (m *memoryStub) Load(_ context.Context, sessionID string) ([]assistant.ConversationTurn, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.turns[sessionID], nil
}

func (m *memoryStub) append(sessionID, role, content string) {
	m.turns[sessionID] = append(m.turns[sessionID], assistant.ConversationTurn{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
}

func (m *memoryStub) AppendUser(_ context.Context, sessionID, content string) error {
	m.append(sessionID, assistant.RoleUser, content)
	return nil
}

func (m *memoryStub) AppendAssistant(_ context.Context, sessionID, content string) error {
	m.append(sessionID, assistant.RoleAssistant, content)
	return nil
}

func (m *memoryStub) Clear(_ context.Context, sessionID string) error {
	delete(m.turns, sessionID)
	return nil
}

// fixedPromptSource 返回固定的提示词配置
type fixedPromptSource struct {
	spec *assistant.PromptSpec
}

func (f *fixedPromptSource) Spec() *assistant.PromptSpec {
	return f.spec
}

func basePromptSpec() *assistant.PromptSpec {
	return &assistant.PromptSpec{
		Role:              assistant.NewScalarSection("Review assistant"),
		StyleOrTone:       assistant.NewListSection([]string{"Friendly", "Objective"}),
		Instruction:       assistant.NewScalarSection("Answer using only the provided context."),
		OutputConstraints: assistant.NewListSection([]string{"Do not invent facts"}),
		OutputFormat:      assistant.NewListSection([]string{"Markdown"}),
	}
}
