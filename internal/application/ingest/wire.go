package ingest

import "github.com/google/wire"

// ProvideChunker 使用默认切片参数创建切分器
func ProvideChunker() (*Chunker, error) {
	return NewChunker(DefaultChunkSize, DefaultChunkOverlap)
}

// ProviderSet 语料索引应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewLoader,
	ProvideChunker,
	NewService,
)
