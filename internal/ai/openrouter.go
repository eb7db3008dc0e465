package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Client talks to the OpenRouter chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	retry      retrier
}

// NewClient builds an OpenRouter client. An empty BaseURL targets openrouter.ai.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeoutOr(cfg.HTTPTimeout)},
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		retry:      newRetrier(cfg, 3, 500*time.Millisecond, 4*time.Second),
	}
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Model == "" {
		return nil, ErrEmptyModel
	}
	if len(req.Messages) == 0 {
		return nil, ErrEmptyMessages
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"

	var out GenerateResponse
	err = c.retry.do(ctx, exchange{
		send: func(ctx context.Context) (*http.Response, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Authorization", "Bearer "+c.apiKey)
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("HTTP-Referer", "https://github.com/KaramelBytes/workgen-cli")
			r.Header.Set("X-Title", "WorkGen CLI")
			return c.httpClient.Do(r)
		},
		decode: func(resp *http.Response) error {
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}
			out.RequestID = requestID(resp)
			return nil
		},
		netErr:   func(err error) error { return fmt.Errorf("http request: %w", err) },
		classify: classify,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
