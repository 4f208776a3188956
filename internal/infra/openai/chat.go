package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"voice-assistant/internal/domain"
)

const defaultSystemPrompt = "You are a helpful, concise AI assistant."

// ChatClient produces assistant replies via the OpenAI chat completion API.
// The prompt is the configured system instruction, the full ordered history
// and the new user turn; the call is synchronous and never retried.
type ChatClient struct {
	client       *goopenai.Client
	model        string
	systemPrompt string
	temperature  float32
}

func NewChatClient(apiKey, model, systemPrompt string, temperature float32) *ChatClient {
	return newChatClient(goopenai.DefaultConfig(apiKey), model, systemPrompt, temperature)
}

// NewChatClientWithURL points the client at an alternate API endpoint, used
// by tests.
func NewChatClientWithURL(apiKey, model, systemPrompt string, temperature float32, baseURL string) *ChatClient {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return newChatClient(cfg, model, systemPrompt, temperature)
}

func newChatClient(cfg goopenai.ClientConfig, model, systemPrompt string, temperature float32) *ChatClient {
	if model == "" {
		model = goopenai.GPT4oMini
	}
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	return &ChatClient{
		client:       goopenai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: systemPrompt,
		temperature:  temperature,
	}
}

func (c *ChatClient) Respond(ctx context.Context, history []domain.Turn, userText string) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: c.systemPrompt,
	})

	for _, turn := range history {
		role := goopenai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: userText,
	})

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}

	return resp.Choices[0].Message.Content, nil
}
