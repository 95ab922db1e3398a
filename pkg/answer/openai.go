package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const openaiAPIBase = "https://api.openai.com/v1"

type Config struct {
	Model string
	// BaseURL is the API root, e.g. https://api.openai.com/v1; the chat
	// completions path is appended to it.
	BaseURL      string
	APIKey       string
	SystemPrompt string
	Temperature  *float64
	MaxTokens    int
	Timeout      time.Duration
}

// ChatClient answers questions through an OpenAI-compatible chat
// completions endpoint, non-streaming. It is the default Answerer behind
// local dispatch.
type ChatClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewChatClient(cfg Config) (*ChatClient, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("answer: API key not set (provide it or set OPENAI_API_KEY)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openaiAPIBase
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &ChatClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatClient) Answer(ctx context.Context, text string) (string, error) {
	apiReq := chatRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.SystemPrompt != "" {
		apiReq.Messages = append(apiReq.Messages, chatMessage{Role: "system", Content: c.cfg.SystemPrompt})
	}
	apiReq.Messages = append(apiReq.Messages, chatMessage{Role: "user", Content: text})

	data, err := json.Marshal(apiReq)
	if err != nil {
		return "", fmt.Errorf("answer: marshaling request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("answer: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("answer: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("answer: API returned %d: %s", resp.StatusCode, string(errBody))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("answer: decoding response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("answer: empty response")
	}
	return out.Choices[0].Message.Content, nil
}
