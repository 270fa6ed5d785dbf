package assistant

// SectionKind 提示词段落内容的形态
// 形态在配置加载时决定一次，渲染时不再做动态检查
type SectionKind int

const (
	// SectionScalar 单个字符串
	SectionScalar SectionKind = iota
	// SectionList 字符串列表，每项渲染为一个条目
	SectionList
	// SectionMap 有序键值对，每对渲染为 "key: value" 条目
	SectionMap
)

// MapEntry 有序映射中的一个键值对
type MapEntry struct {
	Key   string
	Value string
}

// SectionContent 提示词段落内容（标量/列表/有序映射三选一）
type SectionContent struct {
	Kind    SectionKind
	Scalar  string
	List    []string
	Entries []MapEntry
}

// NewScalarSection 创建标量段落
func NewScalarSection(value string) SectionContent {
	return SectionContent{Kind: SectionScalar, Scalar: value}
}

// NewListSection 创建列表段落
func NewListSection(items []string) SectionContent {
	return SectionContent{Kind: SectionList, List: items}
}

// NewMapSection 创建有序映射段落
func NewMapSection(entries []MapEntry) SectionContent {
	return SectionContent{Kind: SectionMap, Entries: entries}
}

// PromptSpec 提示词模板配置
// 所有字段均可为空，空字段渲染为带标题的空段落而不会报错
type PromptSpec struct {
	Role              SectionContent
	StyleOrTone       SectionContent
	Instruction       SectionContent
	OutputConstraints SectionContent
	OutputFormat      SectionContent
}
