package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avalia/backend/internal/domain/assistant"
)

// 提示词配置文件中的顶层键
const promptConfigKey = "rag_assistant_prompt"

// LoadPromptSpec 从 YAML 文件加载提示词模板
// 每个段落的内容形态（标量/列表/映射）在此处决定一次，
// 渲染阶段不再做动态形态检查
func LoadPromptSpec(path string) (*assistant.PromptSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt config: %w", err)
	}

	return ParsePromptSpec(data)
}

// ParsePromptSpec 解析提示词模板 YAML 内容
func ParsePromptSpec(data []byte) (*assistant.PromptSpec, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse prompt config: %w", err)
	}

	if len(root.Content) == 0 {
		return nil, fmt.Errorf("prompt config is empty")
	}

	doc := root.Content[0]
	promptNode := findMappingValue(doc, promptConfigKey)
	if promptNode == nil {
		return nil, fmt.Errorf("prompt config missing %q key", promptConfigKey)
	}

	// 缺失的键使用空默认值：标量字段为空字符串，列表字段为空列表
	spec := &assistant.PromptSpec{
		Role:              assistant.NewScalarSection(""),
		StyleOrTone:       assistant.NewListSection(nil),
		Instruction:       assistant.NewScalarSection(""),
		OutputConstraints: assistant.NewListSection(nil),
		OutputFormat:      assistant.NewListSection(nil),
	}

	fields := map[string]*assistant.SectionContent{
		"role":               &spec.Role,
		"style_or_tone":      &spec.StyleOrTone,
		"instruction":        &spec.Instruction,
		"output_constraints": &spec.OutputConstraints,
		"output_format":      &spec.OutputFormat,
	}

	for key, target := range fields {
		node := findMappingValue(promptNode, key)
		if node == nil {
			continue
		}
		content, err := sectionFromNode(node)
		if err != nil {
			return nil, fmt.Errorf("invalid prompt section %q: %w", key, err)
		}
		*target = content
	}

	return spec, nil
}

// sectionFromNode 根据 YAML 节点形态构建段落内容
func sectionFromNode(node *yaml.Node) (assistant.SectionContent, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return assistant.NewScalarSection(node.Value), nil

	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return assistant.SectionContent{}, fmt.Errorf("list items must be scalars")
			}
			items = append(items, item.Value)
		}
		return assistant.NewListSection(items), nil

	case yaml.MappingNode:
		// yaml.Node 保留文档中的键顺序
		entries := make([]assistant.MapEntry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			entries = append(entries, assistant.MapEntry{
				Key:   node.Content[i].Value,
				Value: node.Content[i+1].Value,
			})
		}
		return assistant.NewMapSection(entries), nil

	default:
		return assistant.SectionContent{}, fmt.Errorf("unsupported node kind %d", node.Kind)
	}
}

// findMappingValue 在映射节点中查找键对应的值节点
func findMappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
