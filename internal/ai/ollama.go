package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultOllamaHost = "http://127.0.0.1:11434"

// OllamaClient talks to a local Ollama daemon's /api/chat endpoint.
type OllamaClient struct {
	httpClient *http.Client
	host       string
	retry      retrier
}

func NewOllamaClient(cfg Config) *OllamaClient {
	host := cfg.Host
	if host == "" {
		host = defaultOllamaHost
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: timeoutOr(cfg.HTTPTimeout)},
		host:       host,
		retry:      newRetrier(cfg, 2, 200*time.Millisecond, time.Second),
	}
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

// Generate sends a non-streaming chat request.
func (c *OllamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		return nil, ErrEmptyModel
	}
	if len(req.Messages) == 0 {
		return nil, ErrEmptyMessages
	}
	oreq := ollamaChatRequest{Model: req.Model, Messages: req.Messages, Options: map[string]any{}}
	if req.Temperature > 0 {
		oreq.Options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		oreq.Options["num_predict"] = req.MaxTokens
	}
	payload, err := json.Marshal(oreq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.host + "/api/chat"

	var out GenerateResponse
	err = c.retry.do(ctx, exchange{
		send: func(ctx context.Context) (*http.Response, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			return c.httpClient.Do(r)
		},
		decode: func(resp *http.Response) error {
			var oresp ollamaChatResponse
			if err := json.NewDecoder(resp.Body).Decode(&oresp); err != nil {
				return err
			}
			out.Choices = []Choice{{Message: Message{Role: "assistant", Content: oresp.Message.Content}}}
			out.RequestID = fmt.Sprintf("ollama_%d", time.Now().UnixNano())
			return nil
		},
		netErr:   func(err error) error { return &UnreachableError{Host: c.host, Err: err} },
		classify: classifyOllama,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// classifyOllama treats 404 as a missing model, which is how the daemon reports it.
func classifyOllama(e *APIError, resp *http.Response) error {
	if e.StatusCode == http.StatusNotFound {
		return &ModelNotFoundError{APIError: e}
	}
	return classify(e, resp)
}
