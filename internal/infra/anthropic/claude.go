package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

const defaultSystemPrompt = "You are a helpful, concise AI assistant."

// ClaudeClient generates assistant replies through the Anthropic Messages
// API. It is an alternative chat backend to the OpenAI one.
type ClaudeClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
	system     string
}

func NewClaudeClient(apiKey, model, systemPrompt string) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, systemPrompt, "https://api.anthropic.com/v1")
}

func NewClaudeClientWithURL(apiKey, model, systemPrompt, baseURL string) *ClaudeClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &ClaudeClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		model:      model,
		system:     systemPrompt,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Respond sends the conversation so far plus the new user input and returns
// the reply text.
func (c *ClaudeClient) Respond(ctx context.Context, history []domain.Turn, userText string) (string, error) {
	messages := make([]message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, message{Role: string(turn.Role), Content: turn.Text})
	}
	messages = append(messages, message{Role: string(domain.RoleUser), Content: userText})

	reqBody := request{
		Model:     c.model,
		MaxTokens: 1024,
		System:    c.system,
		Messages:  messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("claude API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result response
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty response from claude")
	}

	return strings.TrimSpace(result.Content[0].Text), nil
}
