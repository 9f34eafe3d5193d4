package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spacesedan/sentigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewGeminiClient(context.Background(), ProviderConfig{APIKey: "gm-test", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	return client
}

func geminiHandler(t *testing.T, generationConfig *map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if cfg, ok := body["generationConfig"].(map[string]any); ok {
			*generationConfig = cfg
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[
			{"content":{"role":"model","parts":[{"text":"Sunny "},{"text":"day."}]},"finishReason":"STOP","index":0},
			{"content":{"role":"model","parts":[{"text":"Bright sky."}]},"finishReason":"STOP","index":1}]}`))
	}
}

func TestGeminiSendsTopKAndCandidateCount(t *testing.T) {
	var cfg map[string]any
	client := newGeminiTestClient(t, geminiHandler(t, &cfg))

	k := 50
	out, err := client.Generate(context.Background(), "gemini-test", models.EngineParams{
		Instruction: "Write a positive paragraph about: summer\n\nParagraph:",
		MaxLength:   120,
		Temperature: 0.8,
		TopK:        &k,
		TopP:        0.95,
		NumOutputs:  2,
		DoSample:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny day.", "Bright sky."}, out)

	require.NotNil(t, cfg)
	assert.EqualValues(t, 2, cfg["candidateCount"])
	assert.EqualValues(t, 50, cfg["topK"])
	assert.EqualValues(t, 120, cfg["maxOutputTokens"])
	assert.InDelta(t, 0.95, cfg["topP"], 1e-6)
}

func TestGeminiOmitsTopKWhenUnset(t *testing.T) {
	var cfg map[string]any
	client := newGeminiTestClient(t, geminiHandler(t, &cfg))

	_, err := client.Generate(context.Background(), "gemini-test", models.EngineParams{
		Instruction: "Write a neutral paragraph about: maps",
		MaxLength:   80,
		Temperature: 0.5,
		NumOutputs:  2,
		DoSample:    true,
	})
	require.NoError(t, err)

	require.NotNil(t, cfg)
	assert.NotContains(t, cfg, "topK")
	assert.EqualValues(t, 2, cfg["candidateCount"])
}
