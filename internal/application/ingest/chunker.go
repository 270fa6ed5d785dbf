package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"github.com/avalia/backend/internal/domain/review"
	"github.com/avalia/backend/internal/infrastructure/log"
	"github.com/avalia/backend/internal/infrastructure/token"
)

// 默认切片参数（Token 数）
const (
	DefaultChunkSize    = 256
	DefaultChunkOverlap = 32
)

// Chunker 按 Token 数切分评论文本
// 相邻切片之间保留固定数量的重叠 Token，避免语义在边界处断裂
type Chunker struct {
	enc       *tiktoken.Tiktoken
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// NewChunker 创建切分器
// chunkSize 必须大于 overlap，否则步进会停滞
func NewChunker(chunkSize, overlap int) (*Chunker, error) {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("invalid chunk parameters: size=%d overlap=%d", chunkSize, overlap)
	}

	enc, err := tiktoken.GetEncoding(token.FallbackEncoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding: %w", err)
	}

	return &Chunker{
		enc:       enc,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    log.NewModuleLogger("ingest", "chunker"),
	}, nil
}

// ChunkPlaces 将所有地点的评论切分为携带元数据副本的切片
// 空白评论被跳过；每个切片分配独立的 UUID 作为索引点 ID
func (c *Chunker) ChunkPlaces(places []review.Place) []review.Chunk {
	var chunks []review.Chunk
	reviewCount := 0

	for _, place := range places {
		for _, rev := range place.Reviews {
			text := strings.TrimSpace(rev.Text)
			if text == "" {
				continue
			}
			reviewCount++

			for i, piece := range c.splitText(text) {
				chunks = append(chunks, review.Chunk{
					ID:           uuid.NewString(),
					Text:         piece,
					ChunkIndex:   i,
					Name:         place.Name,
					Street:       place.Street,
					Neighborhood: place.Neighborhood,
					City:         place.City,
					Type:         place.Type,
					PlaceRating:  place.Rating,
					ReviewRating: rev.Rating,
					Author:       rev.Author,
					Date:         rev.Date,
					Response:     rev.Response,
				})
			}
		}
	}

	c.logger.Info("Generated chunks", "reviews", reviewCount, "chunks", len(chunks))
	return chunks
}

// splitText 按 Token 窗口切分文本
// 窗口大小 chunkSize，步进 chunkSize-overlap
func (c *Chunker) splitText(text string) []string {
	tokens := c.enc.Encode(text, nil, nil)
	if len(tokens) <= c.chunkSize {
		return []string{text}
	}

	step := c.chunkSize - c.overlap
	var pieces []string
	for start := 0; start < len(tokens); start += step {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		pieces = append(pieces, c.enc.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return pieces
}
