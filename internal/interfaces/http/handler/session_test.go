package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalia/backend/internal/domain/assistant"
)

func setupSessionRouter(memory assistant.MemoryRepository) *gin.Engine {
	router := gin.New()
	handler := NewSessionHandler(memory)

	sessions := router.Group("/api/v1/sessions")
	{
		sessions.GET("/:session_id/history", handler.History)
		sessions.DELETE("/:session_id/history", handler.Clear)
	}

	return router
}

func TestSessionHandler_History(t *testing.T) {
	memory := newMemoryStub()
	memory.AppendUser(nil, "s1", "pergunta")
	memory.AppendAssistant(nil, "s1", "resposta")
	router := setupSessionRouter(memory)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			SessionID string     `json:"session_id"`
			Messages  []TurnView `json:"messages"`
			Count     int        `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "s1", resp.Data.SessionID)
	require.Equal(t, 2, resp.Data.Count)
	assert.Equal(t, assistant.RoleUser, resp.Data.Messages[0].Role)
	assert.Equal(t, "pergunta", resp.Data.Messages[0].Content)
}

func TestSessionHandler_HistoryEmptySession(t *testing.T) {
	router := setupSessionRouter(newMemoryStub())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/none/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.Count)
}

func TestSessionHandler_ClearIsIdempotent(t *testing.T) {
	memory := newMemoryStub()
	memory.AppendUser(nil, "s1", "pergunta")
	router := setupSessionRouter(memory)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1/history", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Empty(t, memory.turns["s1"])
}
