package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

const maxLineSize = 1024 * 1024

// InputRecord is one parsed line of batch input. Error is set when the line could
// not be turned into a generation request.
type InputRecord struct {
	LineNumber int
	Request    recipe.GenerateRequest
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams JSONL records until EOF or ctx is done. Blank lines are skipped
// but still counted.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if strings.TrimSpace(record.Request.Ingredient) == "" {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, recipe.ErrEmptyIngredient)
			}

			select {
			case out <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("Reading cancelled")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("Failed to scan input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

// FromIngredients turns a YAML ingredient list into records numbered by position.
func FromIngredients(list *config.IngredientList) []InputRecord {
	records := make([]InputRecord, 0, len(list.Ingredients))
	for i, ingredient := range list.Ingredients {
		records = append(records, InputRecord{
			LineNumber: i + 1,
			Request:    recipe.GenerateRequest{Ingredient: ingredient},
		})
	}
	return records
}
