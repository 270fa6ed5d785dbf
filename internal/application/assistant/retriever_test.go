package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/internal/domain/assistant"
)

func hit(text string, distance float64, payload map[string]string) assistant.SearchHit {
	return assistant.SearchHit{Text: text, Distance: distance, Payload: payload}
}

func TestRetriever_ThresholdIsStrict(t *testing.T) {
	searcher := &mockSearcher{hits: []assistant.SearchHit{
		hit("great coffee", 0.1, nil),
		hit("decent place", 0.3, nil), // 恰好等于阈值，应被排除
		hit("unrelated", 0.9, nil),
	}}
	r := NewRetriever(&mockEmbedder{}, searcher)

	results := r.Retrieve(context.Background(), "coffee", 5, 0.3)

	require.Len(t, results, 1)
	assert.Contains(t, results[0], "great coffee")
}

func TestRetriever_PreservesIndexOrder(t *testing.T) {
	searcher := &mockSearcher{hits: []assistant.SearchHit{
		hit("first", 0.05, nil),
		hit("second", 0.10, nil),
		hit("third", 0.20, nil),
	}}
	r := NewRetriever(&mockEmbedder{}, searcher)

	results := r.Retrieve(context.Background(), "q", 3, 0.5)

	require.Len(t, results, 3)
	assert.Contains(t, results[0], "first")
	assert.Contains(t, results[1], "second")
	assert.Contains(t, results[2], "third")
}

func TestRetriever_FormatsMetadata(t *testing.T) {
	searcher := &mockSearcher{hits: []assistant.SearchHit{
		hit("  Ótimo atendimento.  ", 0.1, map[string]string{
			"name":         "Padaria Central",
			"place_rating": "4.5",
			"street":       "Rua das Flores, 10",
			"neighborhood": "Centro",
			"city":         "Curitiba",
		}),
	}}
	r := NewRetriever(&mockEmbedder{}, searcher)

	results := r.Retrieve(context.Background(), "q", 1, 0.5)

	require.Len(t, results, 1)
	assert.Equal(t,
		"Padaria Central (Rating: 4.5) — Rua das Flores, 10, Centro, Curitiba\nReview: Ótimo atendimento.",
		results[0])
}

func TestRetriever_MissingMetadataUsesPlaceholders(t *testing.T) {
	searcher := &mockSearcher{hits: []assistant.SearchHit{hit("text only", 0.1, nil)}}
	r := NewRetriever(&mockEmbedder{}, searcher)

	results := r.Retrieve(context.Background(), "q", 1, 0.5)

	require.Len(t, results, 1)
	assert.Equal(t,
		"Unknown name (Rating: N/A) — No street provided, No neighborhood provided, No city provided\nReview: text only",
		results[0])
}

func TestRetriever_SoftFailures(t *testing.T) {
	tests := []struct {
		name     string
		embedder *mockEmbedder
		searcher *mockSearcher
	}{
		{
			name:     "向量化失败",
			embedder: &mockEmbedder{err: errors.New("embedding service down")},
			searcher: &mockSearcher{},
		},
		{
			name:     "索引查询失败",
			embedder: &mockEmbedder{},
			searcher: &mockSearcher{err: errors.New("qdrant unavailable")},
		},
		{
			name:     "索引为空",
			embedder: &mockEmbedder{},
			searcher: &mockSearcher{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetriever(tt.embedder, tt.searcher)
			results := r.Retrieve(context.Background(), "q", 5, 0.3)
			assert.Empty(t, results, "检索失败应降级为空列表")
		})
	}
}

func TestRetriever_NonPositiveNResults(t *testing.T) {
	r := NewRetriever(&mockEmbedder{}, &mockSearcher{hits: []assistant.SearchHit{hit("x", 0.1, nil)}})

	assert.Empty(t, r.Retrieve(context.Background(), "q", 0, 0.3))
	assert.Empty(t, r.Retrieve(context.Background(), "q", -1, 0.3))
}
