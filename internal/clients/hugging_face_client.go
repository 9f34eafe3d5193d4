package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spacesedan/sentigen/internal/models"
)

var ErrEmptyResponse = errors.New("empty response from inference endpoint")

// APIError is returned for non-retryable 4xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Body)
}

type HuggingFaceConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

type HuggingFaceClient struct {
	Client *http.Client

	baseURL        string
	token          string
	maxRetries     int
	initialBackoff time.Duration
}

func NewHuggingFaceClient(cfg HuggingFaceConfig) *HuggingFaceClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DEV_REQUEST_TIMEOUT
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = MAX_RETRIES
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = INITIAL_BACKOFF
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", cfg.Timeout),
		slog.String("base_url", cfg.BaseURL))

	return &HuggingFaceClient{
		Client:         &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq is called once per attempt so request bodies are fresh.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.initialBackoff

	for attempt := 0; attempt < h.maxRetries; attempt++ {
		req, buildErr := newReq()
		if buildErr != nil {
			return nil, fmt.Errorf("failed to build request: %w", buildErr)
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if attempt == h.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	if err == nil {
		err = fmt.Errorf("status code %d", resp.StatusCode)
	}
	return nil, err
}

// Classify runs a text-classification model and returns its label scores,
// highest first as reported by the endpoint.
func (h *HuggingFaceClient) Classify(ctx context.Context, model, text string) ([]models.ClassificationScore, error) {
	slog.Debug("[HuggingFaceClient] Requesting classification", slog.String("model", model))
	start := time.Now()

	input := models.ClassificationRequest{
		Inputs:  text,
		Options: models.InferenceOptions{WaitForModel: true, UseCache: true},
	}

	var raw json.RawMessage
	if err := h.postJSON(ctx, h.modelURL(model), input, &raw); err != nil {
		slog.Error("[HuggingFaceClient] Classification request failed",
			slog.String("model", model),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	scores, err := decodeClassification(raw)
	if err != nil {
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Classification request successful",
		slog.String("model", model),
		slog.Duration("elapsed", time.Since(start)))
	return scores, nil
}

func (h *HuggingFaceClient) GenerateText(ctx context.Context, model string, input models.TextGenerationRequest) (models.TextGenerationBatchResponse, error) {
	var result models.TextGenerationBatchResponse
	slog.Info("[HuggingFaceClient] Requesting text generation",
		slog.String("model", model),
		slog.Int("num_return_sequences", input.Parameters.NumReturnSequences))
	start := time.Now()

	if err := h.postJSON(ctx, h.modelURL(model), input, &result); err != nil {
		slog.Error("[HuggingFaceClient] Text generation request failed",
			slog.String("model", model),
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Info("[HuggingFaceClient] Text generation request successful",
		slog.String("model", model),
		slog.Int("candidates", len(result)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Generate adapts EngineParams to a text-generation request. The full text,
// instruction included, is returned so callers can strip up to the marker.
func (h *HuggingFaceClient) Generate(ctx context.Context, model string, p models.EngineParams) ([]string, error) {
	resp, err := h.GenerateText(ctx, model, models.TextGenerationRequest{
		Inputs: p.Instruction,
		Parameters: models.TextGenerationParameters{
			MaxNewTokens:       p.MaxLength,
			Temperature:        p.Temperature,
			TopK:               p.TopK,
			TopP:               p.TopP,
			DoSample:           p.DoSample,
			NumReturnSequences: p.NumOutputs,
			ReturnFullText:     true,
		},
		Options: models.InferenceOptions{WaitForModel: true, UseCache: !p.DoSample},
	})
	if err != nil {
		return nil, err
	}

	outputs := make([]string, 0, len(resp))
	for _, r := range resp {
		outputs = append(outputs, r.GeneratedText)
	}
	return outputs, nil
}

// ModelHealthCheck reports whether the endpoint for model answers without a
// server error or 404.
func (h *HuggingFaceClient) ModelHealthCheck(ctx context.Context, model string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.modelURL(model), nil)
	if err != nil {
		return false
	}
	h.setHeaders(req)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("model", model),
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500 && resp.StatusCode != http.StatusNotFound
}

func (h *HuggingFaceClient) modelURL(model string) string {
	return h.baseURL + "/" + strings.TrimLeft(model, "/")
}

func (h *HuggingFaceClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}

// helper function for posting data to the inference endpoint
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		h.setHeaders(req)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: getPreview(respBody).Value.String()}
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// decodeClassification accepts both the nested [[{label,score}]] shape and
// the flat [{label,score}] shape.
func decodeClassification(raw json.RawMessage) ([]models.ClassificationScore, error) {
	var nested [][]models.ClassificationScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, ErrEmptyResponse
		}
		return nested[0], nil
	}

	var flat []models.ClassificationScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode classification: %w", err)
	}
	if len(flat) == 0 {
		return nil, ErrEmptyResponse
	}
	return flat, nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
