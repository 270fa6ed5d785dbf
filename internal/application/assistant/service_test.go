package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/config"
)

// serviceFixture 按组件拆分 LLM mock，便于断言各环节的调用次数
type serviceFixture struct {
	store         *memoryStub
	searcher      *mockSearcher
	translator    *mockTranslator
	mainLLM       *mockChatModel
	classifierLLM *mockChatModel
	postLLM       *mockChatModel
	service       *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	cfg := &config.Config{
		LLM:              config.LLMConfig{Model: "gpt-4"},
		VectorDB:         config.VectorDBConfig{Threshold: 0.3, NResults: 5},
		MemoryStrategies: config.MemoryStrategies{TrimmingWindowSize: 6, SummarizationMaxTokens: 100000},
		Translator:       config.TranslatorConfig{NativeLanguage: "pt"},
		ReasoningStrategies: map[string]string{
			"default": "CoT",
			"CoT":     "Think step by step.",
		},
	}

	f := &serviceFixture{
		store:      newMemoryStub(),
		searcher:   &mockSearcher{},
		translator: &mockTranslator{lang: "pt"},
		mainLLM: &mockChatModel{invoke: func([]assistant.Message) (string, error) {
			return "resposta do modelo", nil
		}},
		classifierLLM: &mockChatModel{invoke: func([]assistant.Message) (string, error) {
			return "NÃO", nil
		}},
		postLLM: &mockChatModel{invoke: func(messages []assistant.Message) (string, error) {
			return "fixed:" + messages[0].Content, nil
		}},
	}

	history := NewHistoryService(f.store, f.mainLLM, mockCounter{}, cfg.LLM.Model,
		cfg.MemoryStrategies.TrimmingWindowSize, cfg.MemoryStrategies.SummarizationMaxTokens)

	f.service = NewService(
		NewRetriever(&mockEmbedder{}, f.searcher),
		history,
		NewHistoryClassifier(f.classifierLLM),
		NewPostProcessor(f.translator, f.postLLM, cfg.Translator.NativeLanguage),
		f.mainLLM,
		&fixedPromptSource{spec: basePromptSpec()},
		cfg,
	)
	return f
}

func TestService_EmptyIndex(t *testing.T) {
	f := newServiceFixture(t)

	answer, err := f.service.Respond(context.Background(), "s1", "Is this shop good?", 5, 0.3)
	require.NoError(t, err)

	assert.Equal(t, "resposta do modelo", answer)
	require.Len(t, f.mainLLM.calls, 1)
	assert.Contains(t, f.mainLLM.lastPrompt(), "Context:\n\n\nUser's question:")
}

func TestService_HistoryBlockIncludesLastTwoTurns(t *testing.T) {
	f := newServiceFixture(t)
	f.store.append("s1", assistant.RoleUser, "Qual a melhor padaria?")
	f.store.append("s1", assistant.RoleAssistant, "A Padaria Central é muito elogiada.")
	f.classifierLLM.invoke = func([]assistant.Message) (string, error) {
		return "SIM", nil
	}

	_, err := f.service.Respond(context.Background(), "s1", "E o preço?", 5, 0.3)
	require.NoError(t, err)

	prompt := f.mainLLM.lastPrompt()
	assert.Contains(t, prompt,
		"Histórico:\nQual a melhor padaria?\nA Padaria Central é muito elogiada.\n\nNova pergunta:\nE o preço?")
	assert.NotContains(t, prompt, "Pergunta:\nE o preço?")
}

func TestService_NoHistoryBlockWhenClassifierSaysNo(t *testing.T) {
	f := newServiceFixture(t)
	f.store.append("s1", assistant.RoleUser, "u1")
	f.store.append("s1", assistant.RoleAssistant, "a1")

	_, err := f.service.Respond(context.Background(), "s1", "Pergunta nova", 5, 0.3)
	require.NoError(t, err)

	prompt := f.mainLLM.lastPrompt()
	assert.Contains(t, prompt, "Pergunta:\nPergunta nova")
	assert.NotContains(t, prompt, "Histórico:")
}

func TestService_TranslatedBranchAppliesMarkdownFix(t *testing.T) {
	f := newServiceFixture(t)
	f.translator.lang = "en"

	answer, err := f.service.Respond(context.Background(), "s1", "Is it good?", 5, 0.3)
	require.NoError(t, err)

	// 翻译分支：回答 = markdown_fix(translate(llm_response))
	assert.Contains(t, answer, "translated[en]:resposta do modelo")
	require.Len(t, f.postLLM.calls, 1)
}

func TestService_NativeBranchReturnsRawResponse(t *testing.T) {
	f := newServiceFixture(t)
	f.translator.lang = "pt"

	answer, err := f.service.Respond(context.Background(), "s1", "É bom?", 5, 0.3)
	require.NoError(t, err)

	// 母语分支：原样返回，无翻译也无 Markdown 修复
	assert.Equal(t, "resposta do modelo", answer)
	assert.Empty(t, f.postLLM.calls)
}

func TestService_ClassifierSkippedWithoutHistory(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Respond(context.Background(), "fresh", "Primeira pergunta", 5, 0.3)
	require.NoError(t, err)

	assert.Empty(t, f.classifierLLM.calls, "首轮对话不应有历史判定调用")
}

func TestService_HistoryMessagesPrecedePrompt(t *testing.T) {
	f := newServiceFixture(t)
	f.store.append("s1", assistant.RoleUser, "u1")
	f.store.append("s1", assistant.RoleAssistant, "a1")

	_, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.3)
	require.NoError(t, err)

	require.Len(t, f.mainLLM.calls, 1)
	messages := f.mainLLM.calls[0]
	require.Len(t, messages, 3)
	assert.Equal(t, "u1", messages[0].Content)
	assert.Equal(t, "a1", messages[1].Content)
	assert.Equal(t, assistant.RoleUser, messages[2].Role)
	assert.Contains(t, messages[2].Content, "Role:")
}

func TestService_CallerParametersHonored(t *testing.T) {
	f := newServiceFixture(t)
	f.searcher.hits = []assistant.SearchHit{
		{Text: "close match", Distance: 0.05},
		{Text: "far match", Distance: 0.25},
	}

	// 显式传入更严格的阈值，应覆盖配置默认值 0.3
	_, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.1)
	require.NoError(t, err)

	prompt := f.mainLLM.lastPrompt()
	assert.Contains(t, prompt, "close match")
	assert.NotContains(t, prompt, "far match")
}

func TestService_ZeroParametersFallBackToConfig(t *testing.T) {
	f := newServiceFixture(t)
	f.searcher.hits = []assistant.SearchHit{
		{Text: "close match", Distance: 0.05},
		{Text: "far match", Distance: 0.25},
	}

	// 0 值回退到配置默认阈值 0.3，两条都应保留
	_, err := f.service.Respond(context.Background(), "s1", "q", 0, 0)
	require.NoError(t, err)

	prompt := f.mainLLM.lastPrompt()
	assert.Contains(t, prompt, "close match")
	assert.Contains(t, prompt, "far match")
}

func TestService_GenerationFailurePropagates(t *testing.T) {
	f := newServiceFixture(t)
	f.mainLLM.invoke = func([]assistant.Message) (string, error) {
		return "", errors.New("llm unavailable")
	}

	_, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.3)
	assert.Error(t, err)
}

func TestService_RetrievalFailureDegradesToEmptyContext(t *testing.T) {
	f := newServiceFixture(t)
	f.searcher.err = errors.New("qdrant unavailable")

	answer, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.3)
	require.NoError(t, err)

	assert.Equal(t, "resposta do modelo", answer)
	assert.Contains(t, f.mainLLM.lastPrompt(), "Context:\n\n")
}

func TestService_ReasoningStrategyFromConfig(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.3)
	require.NoError(t, err)

	assert.Contains(t, f.mainLLM.lastPrompt(), "Reasoning Strategy:\n- Think step by step.")
}

func TestService_DoesNotWriteMemory(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Respond(context.Background(), "s1", "q", 5, 0.3)
	require.NoError(t, err)

	turns, _ := f.store.Load(context.Background(), "s1")
	assert.Empty(t, turns, "编排器不应写入会话记忆")
}
