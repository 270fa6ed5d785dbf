package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// LangUnknown 语言检测失败时的占位代码
const LangUnknown = "unknown"

// markdownFixPrompt Markdown 修复提示词模板
const markdownFixPrompt = "Correct the Markdown formatting of the following text. " +
	"Do not change the wording, structure, or meaning. " +
	"If you detect multiple items listed in the text, convert them into bullet points with '-' markers. " +
	"Only fix Markdown syntax issues and improve readability:\n\n%s"

// PostProcessor 回复后处理器
// 负责语言检测、非母语时的回译以及译文的 Markdown 修复
type PostProcessor struct {
	translator assistant.Translator
	llm        assistant.ChatModel
	nativeLang string
	logger     *slog.Logger
}

// NewPostProcessor 创建后处理器
// nativeLang 为语料的母语（ISO 639-1），与检测语言一致时回复原样返回
func NewPostProcessor(translator assistant.Translator, llm assistant.ChatModel, nativeLang string) *PostProcessor {
	return &PostProcessor{
		translator: translator,
		llm:        llm,
		nativeLang: nativeLang,
		logger:     log.NewModuleLogger("assistant", "postprocess"),
	}
}

// DetectLanguage 尽力检测文本语言
// 失败时返回 "unknown"，绝不中断本轮对话
func (p *PostProcessor) DetectLanguage(ctx context.Context, text string) string {
	lang, err := p.translator.DetectLanguage(ctx, text)
	if err != nil {
		p.logger.Warn("Failed to detect language", "error", err)
		return LangUnknown
	}
	if lang == "" {
		return LangUnknown
	}
	return lang
}

// Finalize 按检测语言完成回复的后处理
// 检测语言与母语一致或未知时原样返回；否则翻译到检测语言并修复译文的 Markdown
// 翻译失败向上传播；Markdown 修复失败时返回未修复的译文
func (p *PostProcessor) Finalize(ctx context.Context, response, detectedLang string) (string, error) {
	if detectedLang == p.nativeLang || detectedLang == LangUnknown {
		return response, nil
	}

	translated, err := p.translator.Translate(ctx, response, detectedLang)
	if err != nil {
		return "", fmt.Errorf("failed to translate response to %s: %w", detectedLang, err)
	}
	p.logger.Info("Translated response", "target_lang", detectedLang)

	return p.fixMarkdown(ctx, translated), nil
}

// fixMarkdown 请求 LLM 修复 Markdown 排版
// 不改变措辞与含义，失败时返回原文
func (p *PostProcessor) fixMarkdown(ctx context.Context, text string) string {
	prompt := fmt.Sprintf(markdownFixPrompt, text)

	fixed, err := p.llm.Invoke(ctx, []assistant.Message{{Role: assistant.RoleUser, Content: prompt}})
	if err != nil {
		p.logger.Warn("Failed to fix markdown formatting", "error", err)
		return text
	}
	return fixed
}
