package mcpadapter

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sreedevigattu/recipegenerator/internal/history"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

var ErrHistoryDisabled = errors.New("recipe history is not configured")

type Generator interface {
	Generate(ctx context.Context, req recipe.GenerateRequest) (*recipe.Recipe, error)
}

type Lister interface {
	List(ctx context.Context, limit int) ([]recipe.Recipe, error)
}

// GenerateRecipeInput is the MCP tool input schema (matches HTTP API field names).
type GenerateRecipeInput struct {
	RequestID  string `json:"request_id,omitempty" jsonschema:"optional caller-supplied recipe identifier"`
	Ingredient string `json:"ingredient" jsonschema:"main ingredient of the recipe, e.g. rice"`
}

// RecipeOutput mirrors recipe.Recipe with the timestamp pre-formatted, so the
// inferred output schema matches what is sent.
type RecipeOutput struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Query      string `json:"query"`
	Content    string `json:"content"`
	StopReason string `json:"stop_reason,omitempty"`
	Provider   string `json:"provider"`
	CreatedAt  string `json:"created_at"`
}

func toOutput(r recipe.Recipe) RecipeOutput {
	return RecipeOutput{
		ID:         r.ID,
		Ingredient: r.Ingredient,
		Query:      r.Query,
		Content:    r.Content,
		StopReason: r.StopReason,
		Provider:   r.Provider,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

type ListRecipesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of recipes to return (default 20, max 100)"`
}

type ListRecipesOutput struct {
	Recipes []RecipeOutput `json:"recipes"`
	Count   int            `json:"count"`
}

// NewServer builds the MCP server. The list_recipes tool is only registered when
// lister is non-nil.
func NewServer(generator Generator, lister Lister) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "recipe-generator",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_recipe",
		Description: "Generate a recipe built around the given main ingredient",
	}, NewGenerateRecipeHandler(generator))

	if lister != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "list_recipes",
			Description: "List the most recently generated recipes",
		}, NewListRecipesHandler(lister))
	}
	return server
}

// NewGenerateRecipeHandler returns a tool handler that uses the given generator.
// Pass the returned function to mcp.AddTool.
func NewGenerateRecipeHandler(generator Generator) func(context.Context, *mcp.CallToolRequest, GenerateRecipeInput) (*mcp.CallToolResult, RecipeOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateRecipeInput) (*mcp.CallToolResult, RecipeOutput, error) {
		generated, err := generator.Generate(ctx, recipe.GenerateRequest{
			RequestID:  input.RequestID,
			Ingredient: input.Ingredient,
		})
		if err != nil {
			return nil, RecipeOutput{}, err
		}
		return nil, toOutput(*generated), nil
	}
}

func NewListRecipesHandler(lister Lister) func(context.Context, *mcp.CallToolRequest, ListRecipesInput) (*mcp.CallToolResult, ListRecipesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListRecipesInput) (*mcp.CallToolResult, ListRecipesOutput, error) {
		if lister == nil {
			return nil, ListRecipesOutput{}, ErrHistoryDisabled
		}

		recipes, err := lister.List(ctx, history.ClampLimit(input.Limit))
		if err != nil {
			return nil, ListRecipesOutput{}, err
		}
		out := ListRecipesOutput{Recipes: make([]RecipeOutput, 0, len(recipes))}
		for _, r := range recipes {
			out.Recipes = append(out.Recipes, toOutput(r))
		}
		out.Count = len(out.Recipes)
		return nil, out, nil
	}
}
