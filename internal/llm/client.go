// Package llm implements the generation-backend client used to enrich
// articles, plus the retry decorator that makes it dependable.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/awfulsec/textnews/internal/news"
)

// chatRequest is the OpenAI-compatible chat completion payload.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenAI-compatible chat completions endpoint. It sends the
// article-parsing template as the system message and the article text as the
// user message, and returns the raw response text.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	template    Template
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient builds a Client from pipeline configuration.
func NewClient(cfg news.Config, tmpl Template, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.LLMBaseURL, "/"),
		apiKey:      cfg.LLMAPIKey,
		model:       cfg.LLMModel,
		temperature: cfg.LLMTemperature,
		template:    tmpl,
		httpClient:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:      logger,
	}
}

// Ask sends text to the generation backend and returns the first choice's
// message content. Transport errors and non-200 responses are returned as
// errors so the retry decorator can classify them as transient.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: c.template.System},
			{Role: "user", Content: text},
		},
		Temperature: c.temperature,
		Stream:      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("chat completion request failed",
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(t0)),
			zap.Error(err),
		)
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close chat response body", zap.Error(cerr))
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("chat completion returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(t0)),
		)
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, truncateForLog(string(raw), 300))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("chat completion succeeded",
		zap.Duration("elapsed", time.Since(t0)),
		zap.String("finish_reason", parsed.Choices[0].FinishReason),
		zap.Int("bytes", len(parsed.Choices[0].Message.Content)),
	)
	return parsed.Choices[0].Message.Content, nil
}

// truncateForLog keeps log lines bounded when quoting backend responses.
func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s…(+%d bytes)", s[:max], len(s)-max)
}
