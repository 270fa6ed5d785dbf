package vector

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// 确保 Searcher 实现了 assistant.VectorSearcher 接口
var _ assistant.VectorSearcher = (*Searcher)(nil)

// Searcher 基于 Qdrant 的向量检索实现
type Searcher struct {
	manager *Manager
	logger  *slog.Logger
}

// NewSearcher 创建向量检索器
func NewSearcher(manager *Manager) *Searcher {
	return &Searcher{
		manager: manager,
		logger:  log.NewModuleLogger("vector", "searcher"),
	}
}

// Search 查询最近邻，返回按距离升序排列的命中结果
// Qdrant 余弦模式返回相似度分数（越大越相似），此处转换为
// 余弦距离 distance = 1 - score，保持索引返回的排名顺序
func (s *Searcher) Search(ctx context.Context, vector []float32, limit int) ([]assistant.SearchHit, error) {
	client := s.manager.GetClient()
	if client == nil {
		return nil, fmt.Errorf("qdrant client not initialized")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	lim := uint64(limit)
	resp, err := client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.manager.Collection(),
		Query:          qdrant.NewQuery(vector...),
		Limit:          &lim,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	hits := make([]assistant.SearchHit, 0, len(resp))
	for _, point := range resp {
		hits = append(hits, scoredPointToHit(point))
	}

	s.logger.Debug("Vector search completed",
		"limit", limit,
		"hits", len(hits),
	)

	return hits, nil
}

// scoredPointToHit 将 Qdrant 命中转换为领域命中
func scoredPointToHit(point *qdrant.ScoredPoint) assistant.SearchHit {
	payload := make(map[string]string)
	text := ""

	for key, val := range point.GetPayload() {
		strVal := extractStringValue(val)
		if key == review.PayloadText {
			text = strVal
			continue
		}
		payload[key] = strVal
	}

	distance := 1 - float64(point.GetScore())
	if distance < 0 {
		distance = 0
	}

	return assistant.SearchHit{
		Text:     text,
		Distance: distance,
		Payload:  payload,
	}
}

// extractStringValue 从 qdrant.Value 提取字符串表示
// 载荷中除文本外还包含整型字段（如分块序号），统一转为字符串
func extractStringValue(val *qdrant.Value) string {
	if val == nil {
		return ""
	}
	switch kind := val.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return strconv.FormatInt(kind.IntegerValue, 10)
	case *qdrant.Value_DoubleValue:
		return strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64)
	case *qdrant.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		return ""
	}
}
