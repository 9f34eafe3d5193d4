package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/sentigen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *HuggingFaceClient {
	return NewHuggingFaceClient(HuggingFaceConfig{
		BaseURL:        url,
		Token:          "hf_test",
		Timeout:        time.Second,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
	})
}

func TestClassifyDecodesNestedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/distilbert/sst2", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req models.ClassificationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "great day", req.Inputs)
		assert.True(t, req.Options.WaitForModel)
		assert.True(t, req.Options.UseCache)

		w.Write([]byte(`[[{"label":"POSITIVE","score":0.98},{"label":"NEGATIVE","score":0.02}]]`))
	}))
	defer srv.Close()

	scores, err := newTestClient(srv.URL).Classify(context.Background(), "distilbert/sst2", "great day")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "POSITIVE", scores[0].Label)
	assert.InDelta(t, 0.98, scores[0].Score, 1e-9)
}

func TestClassifyDecodesFlatResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"NEGATIVE","score":0.7}]`))
	}))
	defer srv.Close()

	scores, err := newTestClient(srv.URL).Classify(context.Background(), "m", "meh")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "NEGATIVE", scores[0].Label)
}

func TestClassifyEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[]]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "m", "text")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateSendsSamplingParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		var params map[string]interface{}
		require.NoError(t, json.Unmarshal(raw["parameters"], &params))
		_, hasTopK := params["top_k"]
		assert.False(t, hasTopK, "nil top_k must be omitted")
		assert.Equal(t, true, params["do_sample"])
		assert.Equal(t, float64(2), params["num_return_sequences"])
		assert.Equal(t, float64(120), params["max_new_tokens"])
		assert.Equal(t, true, params["return_full_text"])

		var opts models.InferenceOptions
		require.NoError(t, json.Unmarshal(raw["options"], &opts))
		assert.True(t, opts.WaitForModel)
		assert.False(t, opts.UseCache, "sampled generations must not be replayed from cache")

		w.Write([]byte(`[{"generated_text":"a"},{"generated_text":"b"}]`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).Generate(context.Background(), "gpt2", models.EngineParams{
		Instruction: "Write a positive paragraph about: cats\n\nParagraph:",
		MaxLength:   120,
		Temperature: 0.8,
		TopP:        0.95,
		NumOutputs:  2,
		DoSample:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out)
}

func TestDoWithRetryRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"generated_text":"ok"}]`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).GenerateText(context.Background(), "gpt2", models.TextGenerationRequest{Inputs: "x"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].GeneratedText)
}

func TestDoWithRetryGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateText(context.Background(), "gpt2", models.TextGenerationRequest{Inputs: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "m", "text")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestModelHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	assert.True(t, client.ModelHealthCheck(context.Background(), "gpt2"))
	assert.False(t, client.ModelHealthCheck(context.Background(), "missing"))
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, PROD_REQUEST_TIMEOUT, RequestTimeout("production"))
	assert.Equal(t, DEV_REQUEST_TIMEOUT, RequestTimeout("dev"))
}

func TestMissingAPIKeys(t *testing.T) {
	_, err := NewOpenAIClient(ProviderConfig{Timeout: time.Second})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewAnthropicClient(ProviderConfig{Timeout: time.Second})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewGeminiClient(context.Background(), ProviderConfig{Timeout: time.Second})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
