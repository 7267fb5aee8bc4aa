package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

const (
	KeyAzureLLMURL     = "AZURE_LLM_URL"
	KeyAzureAPIKey     = "AZURE_API_KEY"
	KeyAzureAPIType    = "AZURE_API_TYPE"
	KeyAzureModelName  = "AZURE_MODEL_NAME"
	KeyDefaultProvider = "DEFAULT_LLM_PROVIDER"
	KeyOpenAIKey       = "OPEN_AI_KEY"
	KeyOpenAIModelID   = "OPEN_AI_MODEL_ID"
	KeyAWSRegion       = "AWS_REGION"
	KeyClaudeModelID   = "CLAUDE_MODEL_ID"
	KeyLogLevel        = "LOG_LEVEL"
	KeyAPIPort         = "RECIPE_API_PORT"
	KeyRedisAddr       = "REDIS_ADDR"
	KeyRedisPassword   = "REDIS_PASSWORD"
	KeyDatabaseURL     = "DATABASE_URL"
)

const (
	ProviderAzureML = "azureml"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

type Config struct {
	AzureLLMURL    string
	AzureAPIKey    string
	AzureAPIType   string
	AzureModelName string

	DefaultProvider string
	OpenAIKey       string
	OpenAIModelID   string
	AWSRegion       string
	ClaudeModelID   string

	LogLevel      string
	APIPort       string
	RedisAddr     string
	RedisPassword string
	DatabaseURL   string
}

// MissingConfigError lists every required key that had no value.
type MissingConfigError struct {
	Keys []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Keys, ", "))
}

// Load reads key/values from the dotenv file at path and fills the gaps from the
// process environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultEnvFile
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		values = map[string]string{}
	}

	lookup := func(key, defaultValue string) string {
		if v := strings.TrimSpace(values[key]); v != "" {
			return v
		}
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return defaultValue
	}

	return &Config{
		AzureLLMURL:     lookup(KeyAzureLLMURL, ""),
		AzureAPIKey:     lookup(KeyAzureAPIKey, ""),
		AzureAPIType:    lookup(KeyAzureAPIType, "serverless"),
		AzureModelName:  lookup(KeyAzureModelName, ""),
		DefaultProvider: lookup(KeyDefaultProvider, ProviderAzureML),
		OpenAIKey:       lookup(KeyOpenAIKey, ""),
		OpenAIModelID:   lookup(KeyOpenAIModelID, ""),
		AWSRegion:       lookup(KeyAWSRegion, "us-east-1"),
		ClaudeModelID:   lookup(KeyClaudeModelID, ""),
		LogLevel:        lookup(KeyLogLevel, "info"),
		APIPort:         lookup(KeyAPIPort, "18080"),
		RedisAddr:       lookup(KeyRedisAddr, "localhost:6379"),
		RedisPassword:   lookup(KeyRedisPassword, ""),
		DatabaseURL:     lookup(KeyDatabaseURL, ""),
	}, nil
}

// Validate checks the keys the selected provider needs before any client is built.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	switch c.DefaultProvider {
	case ProviderAzureML:
		require(KeyAzureLLMURL, c.AzureLLMURL)
		require(KeyAzureAPIKey, c.AzureAPIKey)
	case ProviderOpenAI:
		require(KeyOpenAIKey, c.OpenAIKey)
		require(KeyOpenAIModelID, c.OpenAIModelID)
	case ProviderBedrock:
		require(KeyAWSRegion, c.AWSRegion)
		require(KeyClaudeModelID, c.ClaudeModelID)
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.DefaultProvider)
	}

	if len(missing) > 0 {
		return &MissingConfigError{Keys: missing}
	}
	return nil
}
