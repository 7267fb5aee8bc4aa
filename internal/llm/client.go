package llm

import (
	"context"
	"errors"
)

// ErrEmptyPrompt is returned by every backend before any I/O when the prompt is blank.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// LLMClient is an interface for invoking chat-completion models.
// This allows mocking in tests without making real API calls.
//
//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/sreedevigattu/recipegenerator/internal/llm LLMClient
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}
