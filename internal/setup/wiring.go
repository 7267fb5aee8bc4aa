package setup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/history"
	"github.com/sreedevigattu/recipegenerator/internal/llm"
	"github.com/sreedevigattu/recipegenerator/internal/llm/azureml"
	"github.com/sreedevigattu/recipegenerator/internal/llm/bedrock"
	"github.com/sreedevigattu/recipegenerator/internal/llm/gpt"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

type Dependencies struct {
	Generator *recipe.Generator
	History   *history.Store
	Logger    *zerolog.Logger
}

// Close releases optional resources opened by Wire.
func (d *Dependencies) Close() {
	if d.History != nil {
		d.History.Close()
	}
}

// Wire validates cfg and builds the generator for the configured provider. It never
// touches the network for the model before validation passes.
func Wire(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	llmClient, err := CreateLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.DefaultProvider, err)
	}

	return &Dependencies{
		Generator: recipe.NewGenerator(llmClient, cfg.DefaultProvider, logger),
		Logger:    logger,
	}, nil
}

// WireHistory opens the Postgres recipe store when DATABASE_URL is set.
func WireHistory(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	if cfg.DatabaseURL == "" {
		deps.Logger.Info().Msg("DATABASE_URL not set, recipe history disabled")
		return nil
	}

	store, err := history.New(ctx, cfg.DatabaseURL, deps.Logger)
	if err != nil {
		return err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return err
	}

	deps.History = store
	return nil
}

func CreateLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, error) {
	switch cfg.DefaultProvider {
	case config.ProviderAzureML:
		apiType, err := azureml.ParseAPIType(cfg.AzureAPIType)
		if err != nil {
			return nil, err
		}
		return azureml.NewClient(cfg.AzureLLMURL, cfg.AzureAPIKey, apiType, cfg.AzureModelName)
	case config.ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case config.ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.DefaultProvider)
	}
}

// RecipeStore is the history surface shared by the API and the stream worker.
type RecipeStore interface {
	Save(ctx context.Context, r *recipe.Recipe) error
	List(ctx context.Context, limit int) ([]recipe.Recipe, error)
}

// Store returns the history store, or a nil interface when history is disabled.
func (d *Dependencies) Store() RecipeStore {
	if d.History == nil {
		return nil
	}
	return d.History
}
