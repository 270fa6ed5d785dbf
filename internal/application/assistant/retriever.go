package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avalia/backend/internal/domain/assistant"
	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/log"
)

// 元数据缺失时的占位文案
const (
	placeholderName         = "Unknown name"
	placeholderRating       = "N/A"
	placeholderStreet       = "No street provided"
	placeholderNeighborhood = "No neighborhood provided"
	placeholderCity         = "No city provided"
)

// Retriever 评论检索器
// 将查询向量化后检索最近邻，按距离阈值过滤并格式化为展示字符串
type Retriever struct {
	embedder assistant.Embedder
	searcher assistant.VectorSearcher
	logger   *slog.Logger
}

// NewRetriever 创建检索器
func NewRetriever(embedder assistant.Embedder, searcher assistant.VectorSearcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		logger:   log.NewModuleLogger("assistant", "retriever"),
	}
}

// Retrieve 检索与查询最相关的评论
// 只保留距离严格小于 threshold 的结果，保持索引返回的升序排名
// 检索属于尽力而为：任何环节失败都记录日志并返回空列表，不中断本轮对话
func (r *Retriever) Retrieve(ctx context.Context, query string, nResults int, threshold float64) []string {
	if nResults <= 0 {
		return nil
	}

	r.logger.Info("Retrieving similar documents",
		"query", query,
		"n_results", nResults,
		"threshold", threshold,
	)

	vectors, err := r.embedder.EmbedTexts(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		r.logger.Error("Failed to embed query", "query", query, "error", err)
		return nil
	}

	hits, err := r.searcher.Search(ctx, vectors[0], nResults)
	if err != nil {
		r.logger.Error("Failed to query vector index", "query", query, "error", err)
		return nil
	}
	if len(hits) == 0 {
		r.logger.Warn("No documents returned from vector search", "query", query)
		return nil
	}

	relevant := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Distance < threshold {
			relevant = append(relevant, formatReview(hit))
		}
	}

	r.logger.Debug("Filtered relevant documents",
		"total", len(hits),
		"relevant", len(relevant),
		"threshold", threshold,
	)
	return relevant
}

// formatReview 将一条命中结果格式化为带地点元数据的展示字符串
// 缺失字段使用占位文案，不视为错误
func formatReview(hit assistant.SearchHit) string {
	name := payloadOr(hit.Payload, review.PayloadName, placeholderName)
	rating := payloadOr(hit.Payload, review.PayloadPlaceRating, placeholderRating)
	street := payloadOr(hit.Payload, review.PayloadStreet, placeholderStreet)
	neighborhood := payloadOr(hit.Payload, review.PayloadNeighborhood, placeholderNeighborhood)
	city := payloadOr(hit.Payload, review.PayloadCity, placeholderCity)

	return fmt.Sprintf("%s (Rating: %s) — %s, %s, %s\nReview: %s",
		name, rating, street, neighborhood, city, strings.TrimSpace(hit.Text))
}

func payloadOr(payload map[string]string, key, fallback string) string {
	if v, ok := payload[key]; ok && v != "" {
		return v
	}
	return fallback
}
