package services

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"moxie-backend/internal/models"
)

// GroqService talks to Groq's hosted chat-completion API. Groq speaks
// the OpenAI wire format, so the official SDK pointed at Groq's base
// URL is the whole client.
type GroqService struct {
	client openai.Client
	model  string
}

// NewGroqService builds a client for the given credential and model.
// Extra request options are accepted so tests can point the client at a
// stub server.
func NewGroqService(apiKey, baseURL, model string, extra ...option.RequestOption) *GroqService {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)

	return &GroqService{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Complete requests a single non-streaming completion for the message
// sequence, forwarded verbatim and in order. It returns the first
// choice's content, or "" when the response carries no usable text;
// deciding what to do with an empty reply is the caller's business.
func (s *GroqService) Complete(ctx context.Context, messages []models.Message) (string, error) {
	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: toCompletionMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func toCompletionMessages(messages []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, m := range messages {
		switch m.Role {
		case models.RoleSystem:
			out[i] = openai.SystemMessage(m.Content)
		case models.RoleAssistant:
			out[i] = openai.AssistantMessage(m.Content)
		default:
			out[i] = openai.UserMessage(m.Content)
		}
	}
	return out
}
