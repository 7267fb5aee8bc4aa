// Package azureml talks to Azure Machine Learning online endpoints serving chat models
// in the Llama chat format.
package azureml

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type APIType string

const (
	// Serverless endpoints expose an OpenAI-compatible chat completions route.
	Serverless APIType = "serverless"
	// Dedicated endpoints take the input_data/parameters scoring payload.
	Dedicated APIType = "dedicated"
)

func ParseAPIType(s string) (APIType, error) {
	switch APIType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Serverless:
		return Serverless, nil
	case Dedicated:
		return Dedicated, nil
	default:
		return "", fmt.Errorf("unsupported Azure ML API type: %q", s)
	}
}

type Client struct {
	EndpointURL string
	APIKey      string
	APIType     APIType
	ModelName   string

	// HTTPClient carries dedicated-endpoint calls. No timeout is set beyond its own.
	HTTPClient *http.Client

	chat openai.Client
}

func NewClient(endpointURL string, apiKey string, apiType APIType, modelName string) (*Client, error) {
	if endpointURL == "" {
		return nil, fmt.Errorf("Azure ML endpoint URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Azure ML API key is required")
	}
	if apiType == "" {
		apiType = Serverless
	}

	c := &Client{
		EndpointURL: endpointURL,
		APIKey:      apiKey,
		APIType:     apiType,
		ModelName:   modelName,
		HTTPClient:  http.DefaultClient,
	}

	if apiType == Serverless {
		c.chat = openai.NewClient(
			option.WithBaseURL(serverlessBaseURL(endpointURL)),
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		)
	}

	return c, nil
}

// serverlessBaseURL turns a configured scoring URL into the base the OpenAI client
// appends "chat/completions" to.
func serverlessBaseURL(endpointURL string) string {
	base := strings.TrimRight(endpointURL, "/")
	base = strings.TrimSuffix(base, "/chat/completions")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}
