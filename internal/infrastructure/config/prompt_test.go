package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/internal/domain/assistant"
)

func TestParsePromptSpec_Shapes(t *testing.T) {
	data := []byte(`
rag_assistant_prompt:
  role: "Assistente de avaliações de clientes"
  style_or_tone:
    - objetivo
    - cordial
  instruction: "Responda com base apenas nas avaliações fornecidas."
  output_constraints:
    idioma: "português"
    tamanho: "até 200 palavras"
`)

	spec, err := ParsePromptSpec(data)
	require.NoError(t, err)

	// 标量字段
	assert.Equal(t, assistant.SectionScalar, spec.Role.Kind)
	assert.Equal(t, "Assistente de avaliações de clientes", spec.Role.Scalar)

	// 列表字段
	assert.Equal(t, assistant.SectionList, spec.StyleOrTone.Kind)
	assert.Equal(t, []string{"objetivo", "cordial"}, spec.StyleOrTone.List)

	// 映射字段保留文档顺序
	assert.Equal(t, assistant.SectionMap, spec.OutputConstraints.Kind)
	require.Len(t, spec.OutputConstraints.Entries, 2)
	assert.Equal(t, "idioma", spec.OutputConstraints.Entries[0].Key)
	assert.Equal(t, "tamanho", spec.OutputConstraints.Entries[1].Key)
}

func TestParsePromptSpec_MissingKeysUseDefaults(t *testing.T) {
	data := []byte(`
rag_assistant_prompt:
  role: "Assistente"
`)

	spec, err := ParsePromptSpec(data)
	require.NoError(t, err)

	// 缺失的键不报错，使用空默认值
	assert.Equal(t, assistant.SectionList, spec.StyleOrTone.Kind)
	assert.Empty(t, spec.StyleOrTone.List)
	assert.Equal(t, assistant.SectionScalar, spec.Instruction.Kind)
	assert.Empty(t, spec.Instruction.Scalar)
}

func TestParsePromptSpec_MissingTopLevelKey(t *testing.T) {
	_, err := ParsePromptSpec([]byte("other_key: value"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rag_assistant_prompt")
}

func TestParsePromptSpec_InvalidYAML(t *testing.T) {
	_, err := ParsePromptSpec([]byte("rag_assistant_prompt: [unclosed"))
	assert.Error(t, err)
}
