package azureml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sreedevigattu/recipegenerator/internal/llm"
)

const roleUser = "user"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type generationParams struct {
	Temperature  float64 `json:"temperature"`
	MaxNewTokens int     `json:"max_new_tokens"`
}

type dedicatedRequest struct {
	InputData struct {
		InputString []chatMessage    `json:"input_string"`
		Parameters  generationParams `json:"parameters"`
	} `json:"input_data"`
}

type dedicatedResponse struct {
	Output string `json:"output"`
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	switch c.APIType {
	case Dedicated:
		return c.invokeDedicated(ctx, request)
	default:
		return c.invokeServerless(ctx, request)
	}
}

func (c *Client) invokeServerless(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		Temperature: openai.Float(request.Temperature),
		Model:       openai.ChatModel(c.ModelName),
	}

	// Llama chat endpoints read max_new_tokens, not max_tokens.
	output, err := c.chat.Chat.Completions.New(ctx, params,
		option.WithJSONSet("max_new_tokens", request.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke azure ml endpoint: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	return &llm.LLMResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) invokeDedicated(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	var payload dedicatedRequest
	payload.InputData.InputString = []chatMessage{{Role: roleUser, Content: request.Prompt}}
	payload.InputData.Parameters = generationParams{
		Temperature:  request.Temperature,
		MaxNewTokens: request.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize azure ml request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build azure ml request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke azure ml endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("azure ml endpoint returned %s: %s", resp.Status, bytes.TrimSpace(snippet))
	}

	var out dedicatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode azure ml response: %w", err)
	}

	return &llm.LLMResponse{Content: out.Output}, nil
}
