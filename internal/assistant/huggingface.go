package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Compile-time interface check
var _ Supplier = (*HuggingFace)(nil)

// ChatCompletionService defines the slice of the OpenAI-compatible client
// used by HuggingFace. This abstraction enables testing without calling the
// real router.
type ChatCompletionService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// HuggingFace supplies replies through the Hugging Face inference router,
// which speaks the OpenAI chat-completions protocol.
type HuggingFace struct {
	chat  ChatCompletionService
	model string
}

// NewHuggingFace creates a Hugging Face supplier. The router rejects
// unauthenticated calls, so a missing token is a construction error rather
// than a per-request surprise.
func NewHuggingFace(token, model, baseURL string) (*HuggingFace, error) {
	if token == "" {
		return nil, errors.New("huggingface supplier requires HF_TOKEN")
	}
	client := openai.NewClient(
		option.WithAPIKey(token),
		option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"),
	)
	return &HuggingFace{
		chat:  client.Chat.Completions,
		model: model,
	}, nil
}

// Complete sends the prompt as a single user message and returns the
// trimmed reply text.
func (h *HuggingFace) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := h.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(openai.ChatModel(h.model)),
		Temperature: openai.F(0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion failed: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
