package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/infrastructure/vector"
)

// upsertBatchSize 单次写入 Qdrant 的切片数量
const upsertBatchSize = 512

// Service 语料索引服务
// 将切分后的评论向量化并写入 Qdrant 集合
type Service struct {
	embedder assistant.Embedder
	manager  *vector.Manager
	chunker  *Chunker
	logger   *slog.Logger
}

// NewService 创建索引服务
func NewService(embedder assistant.Embedder, manager *vector.Manager, chunker *Chunker) *Service {
	return &Service{
		embedder: embedder,
		manager:  manager,
		chunker:  chunker,
		logger:   log.NewModuleLogger("ingest", "service"),
	}
}

// BuildIndex 执行完整的索引构建流程
// rebuild 为 true 时删除并重建集合，否则增量写入现有集合
func (s *Service) BuildIndex(ctx context.Context, places []review.Place, rebuild bool) (int, error) {
	chunks := s.chunker.ChunkPlaces(places)
	if len(chunks) == 0 {
		s.logger.Warn("No chunks to index")
		return 0, nil
	}

	// 用一次探测调用确定向量维度
	probe, err := s.embedder.EmbedTexts(ctx, []string{chunks[0].Text})
	if err != nil {
		return 0, fmt.Errorf("failed to probe vector dimension: %w", err)
	}
	dimension := uint64(len(probe[0]))

	if rebuild {
		if err := s.manager.RecreateCollection(ctx, dimension); err != nil {
			return 0, fmt.Errorf("failed to recreate collection: %w", err)
		}
	} else if err := s.manager.EnsureCollection(ctx, dimension); err != nil {
		return 0, fmt.Errorf("failed to ensure collection: %w", err)
	}

	s.logger.Info("Indexing chunks",
		"chunks", len(chunks),
		"dimension", dimension,
		"batch_size", upsertBatchSize,
	)

	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.upsertBatch(ctx, chunks[start:end]); err != nil {
			return start, fmt.Errorf("failed to index batch starting at %d: %w", start, err)
		}
		s.logger.Info("Indexed batch", "from", start, "to", end)
	}

	return len(chunks), nil
}

// upsertBatch 向量化一个批次并写入 Qdrant
func (s *Service) upsertBatch(ctx context.Context, chunks []review.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(chunks))
	}

	points := buildPoints(chunks, vectors)

	client := s.manager.GetClient()
	if client == nil {
		return fmt.Errorf("qdrant client not initialized")
	}

	_, err = client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.manager.Collection(),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// buildPoints 构建 Qdrant 点，payload 携带切片文本与全部元数据
func buildPoints(chunks []review.Chunk, vectors [][]float32) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		payload := map[string]interface{}{
			review.PayloadText:       chunk.Text,
			review.PayloadChunkIndex: int64(chunk.ChunkIndex),
		}
		for key, value := range chunk.PayloadMap() {
			payload[key] = value
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(chunk.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}
	return points
}
