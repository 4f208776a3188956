package gemini

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

// Client generates assistant replies through the Gemini generateContent
// API. It is an alternative chat backend to the OpenAI one.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	baseURL     string
	model       string
	system      string
	temperature float64
}

func NewClient(apiKey, model, systemPrompt string, temperature float64) *Client {
	return NewClientWithURL(apiKey, model, systemPrompt, temperature, "https://generativelanguage.googleapis.com/v1beta")
}

func NewClientWithURL(apiKey, model, systemPrompt string, temperature float64, baseURL string) *Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     baseURL,
		model:       model,
		system:      systemPrompt,
		temperature: temperature,
	}
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type request struct {
	Contents         []content        `json:"contents"`
	SystemInstruct   *content         `json:"systemInstruction,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Respond sends the conversation so far plus the new user input and returns
// the reply text. Gemini uses "model" where the transcript says "assistant".
func (c *Client) Respond(ctx context.Context, history []domain.Turn, userText string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "model"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Text}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: userText}}})

	reqBody := request{
		SystemInstruct: &content{
			Parts: []part{{Text: c.system}},
		},
		Contents: contents,
		GenerationConfig: generationConfig{
			MaxOutputTokens: 1024,
			Temperature:     c.temperature,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result response
	if err = json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini error: %s", result.Error.Message)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}
