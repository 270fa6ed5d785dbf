package assistant

import (
	"strings"

	"github.com/avalia/backend/internal/domain/assistant"
)

// BuildPrompt 按固定顺序渲染完整提示词
// 纯字符串拼接，无 I/O 无随机性：相同输入永远产生相同输出
// reasoningInstruction 为空时省略 Reasoning Strategy 段，其余段即使内容为空也保留标题
func BuildPrompt(spec *assistant.PromptSpec, documents []string, userBlock, reasoningInstruction string) string {
	sections := []string{
		formatSection("Role:", spec.Role),
		formatSection("Style / Tone:", spec.StyleOrTone),
		formatSection("Instruction:", spec.Instruction),
		formatSection("Output Constraints:", spec.OutputConstraints),
		formatSection("Output Format:", spec.OutputFormat),
	}

	if reasoningInstruction != "" {
		sections = append(sections, formatSection("Reasoning Strategy:", assistant.NewScalarSection(reasoningInstruction)))
	}

	sections = append(sections, "Context:\n"+strings.Join(documents, "\n"))
	sections = append(sections, "User's question:\n"+userBlock)

	return strings.Join(sections, "\n\n")
}

// formatSection 按内容形态渲染一个标题段
// 列表每项一行、映射每条 "key: value" 一行、标量单行，均以 "- " 起始
func formatSection(title string, content assistant.SectionContent) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n")

	switch content.Kind {
	case assistant.SectionList:
		lines := make([]string, len(content.List))
		for i, item := range content.List {
			lines[i] = "- " + item
		}
		sb.WriteString(strings.Join(lines, "\n"))

	case assistant.SectionMap:
		lines := make([]string, len(content.Entries))
		for i, entry := range content.Entries {
			lines[i] = "- " + entry.Key + ": " + entry.Value
		}
		sb.WriteString(strings.Join(lines, "\n"))

	default:
		sb.WriteString("- " + content.Scalar)
	}

	return sb.String()
}
