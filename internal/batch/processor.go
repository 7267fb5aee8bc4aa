package batch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

type Generator interface {
	Generate(ctx context.Context, req recipe.GenerateRequest) (*recipe.Recipe, error)
}

type OutputRecord struct {
	ID         string         `json:"id"`
	LineNumber int            `json:"line"`
	Ingredient string         `json:"ingredient"`
	Recipe     *recipe.Recipe `json:"recipe,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (o OutputRecord) Failed() bool {
	return o.Error != ""
}

// Processor generates one recipe per record, strictly in order. The endpoint never
// sees more than one request at a time.
type Processor struct {
	generator Generator
	logger    *zerolog.Logger
}

func NewProcessor(generator Generator, logger *zerolog.Logger) *Processor {
	return &Processor{generator: generator, logger: logger}
}

func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan OutputRecord {
	out := make(chan OutputRecord)

	go func() {
		defer close(out)

		for _, record := range records {
			if ctx.Err() != nil {
				p.logger.Warn().Int("line", record.LineNumber).Msg("Processing cancelled")
				return
			}

			result := p.processOne(ctx, record)

			select {
			case out <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) OutputRecord {
	result := OutputRecord{
		ID:         record.Request.RequestID,
		LineNumber: record.LineNumber,
		Ingredient: record.Request.Ingredient,
	}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	generated, err := p.generator.Generate(ctx, record.Request)
	if err != nil {
		p.logger.Error().Err(err).Int("line", record.LineNumber).Msg("Recipe generation failed")
		result.Error = err.Error()
		return result
	}

	result.ID = generated.ID
	result.Ingredient = generated.Ingredient
	result.Recipe = generated
	return result
}
