package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeminiClient(config.AIConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash-8b",
		BaseURL: server.URL,
	})
}

func modelReply(text string) []byte {
	reply := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	encoded, _ := json.Marshal(reply)
	return encoded
}

func TestGeminiClassify_ParsesModelOutput(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-flash-8b")
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Ticket Title: broken login")

		w.Write(modelReply(sampleOutput))
	})

	result, err := client.Classify(context.Background(), &domain.Ticket{
		Title:       "broken login",
		Description: "cannot log in",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityHigh, result.Priority)
	assert.Equal(t, []string{"React", "Redux"}, result.RelatedSkills)
}

func TestGeminiClassify_FencedModelOutput(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelReply("```json\n" + sampleOutput + "\n```"))
	})

	result, err := client.Classify(context.Background(), &domain.Ticket{Title: "t", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "Login page crashes on submit", result.Summary)
}

func TestGeminiClassify_APIError(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	})

	_, err := client.Classify(context.Background(), &domain.Ticket{Title: "t", Description: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api error 429")
}

func TestGeminiClassify_NoCandidates(t *testing.T) {
	client := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Classify(context.Background(), &domain.Ticket{Title: "t", Description: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}
