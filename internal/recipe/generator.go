package recipe

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/llm"
	"github.com/sreedevigattu/recipegenerator/internal/prompt"
)

type Generator struct {
	client   llm.LLMClient
	template *prompt.Template
	provider string
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewGenerator(client llm.LLMClient, provider string, logger *zerolog.Logger) *Generator {
	return &Generator{
		client:   client,
		template: prompt.AnswerQuery,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// Template returns the outer prompt template wrapped around every query.
func (g *Generator) Template() *prompt.Template {
	return g.template
}

// GenerateCompletion writes the query, calls the model once and writes its reply
// unmodified to out.
func (g *Generator) GenerateCompletion(ctx context.Context, mainIngredient string, out io.Writer) (string, error) {
	ingredient, err := normalizeIngredient(mainIngredient)
	if err != nil {
		return "", err
	}

	query := Query(ingredient)
	fmt.Fprintf(out, "Query: %s\n", query)

	_, response, err := g.invoke(ctx, query)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(out, response.Content)
	return response.Content, nil
}

// Generate runs one completion and returns it as a Recipe.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*Recipe, error) {
	ingredient, err := normalizeIngredient(req.Ingredient)
	if err != nil {
		return nil, err
	}

	id := req.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	query := Query(ingredient)
	rendered, response, err := g.invoke(ctx, query)
	if err != nil {
		return nil, err
	}

	return &Recipe{
		ID:         id,
		Ingredient: ingredient,
		Query:      query,
		Prompt:     rendered,
		Content:    response.Content,
		StopReason: response.StopReason,
		Provider:   g.provider,
		CreatedAt:  g.now().UTC(),
	}, nil
}

func (g *Generator) invoke(ctx context.Context, query string) (string, *llm.LLMResponse, error) {
	rendered, err := g.template.Render(query)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	g.logger.Debug().
		Str("provider", g.provider).
		Str("query", query).
		Msg("Invoking model")

	start := g.now()
	response, err := g.client.InvokeModel(ctx, llm.LLMRequest{
		Prompt:      rendered,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("provider", g.provider).Msg("Model invocation failed")
		return "", nil, fmt.Errorf("failed to generate recipe: %w", err)
	}

	g.logger.Info().
		Str("provider", g.provider).
		Str("stop_reason", response.StopReason).
		Dur("duration", g.now().Sub(start)).
		Msg("Recipe generated")

	return rendered, response, nil
}

func normalizeIngredient(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyIngredient
	}
	return s, nil
}
