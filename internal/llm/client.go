package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
)

// Request describes one completion call. The raw text answer is expected
// to be JSON; parsing and validation happen in the layer above.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Client is the completion interface services depend on.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// HTTPClient calls the configured provider (Anthropic messages API or a
// Groq/OpenAI-style chat completions API) over plain HTTP.
type HTTPClient struct {
	cfg    *config.Config
	client *http.Client
}

func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = 1024
	}

	if c.cfg.LLMProvider == "groq" {
		if c.cfg.GroqAPIKey == "" {
			return "", errors.New("GROQ_API_KEY is missing but LLM_PROVIDER is set to groq")
		}
		return c.completeGroq(ctx, req)
	}

	if c.cfg.AnthropicAPIKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY is not configured")
	}
	return c.completeAnthropic(ctx, req)
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *HTTPClient) completeAnthropic(ctx context.Context, req Request) (string, error) {
	body := anthropicRequest{
		Model:       c.cfg.AnthropicModel,
		MaxTokens:   req.MaxTokens,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: req.User}},
	}

	respBody, err := c.post(ctx, c.cfg.AnthropicAPIURL, body, map[string]string{
		"x-api-key":         c.cfg.AnthropicAPIKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode Anthropic response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", errors.New("unexpected response from Anthropic: no text block")
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *HTTPClient) completeGroq(ctx context.Context, req Request) (string, error) {
	body := groqRequest{
		Model: c.cfg.GroqModel,
		Messages: []groqMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	respBody, err := c.post(ctx, c.cfg.GroqAPIURL, body, map[string]string{
		"Authorization": "Bearer " + c.cfg.GroqAPIKey,
	})
	if err != nil {
		return "", err
	}

	var parsed groqResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode Groq response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("unexpected response from Groq: no content")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *HTTPClient) post(ctx context.Context, url string, body interface{}, headers map[string]string) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("LLM API error: status %d", resp.StatusCode)
	}
	return respBody, nil
}
