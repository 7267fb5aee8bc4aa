package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/config"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestReader_InvalidFile(t *testing.T) {
	file := strings.NewReader("invalid file content")

	reader := NewReader(file, newTestLogger())
	ctx := context.Background()
	ch := reader.ReadAll(ctx)

	for record := range ch {
		if record.Error == nil {
			t.Errorf("expected parse error for invalid JSON, but got none")
		}
	}
}

func TestReader_ValidFile(t *testing.T) {
	inputFile := `{"request_id":"1","ingredient":"rice"}
  {"request_id":"2","ingredient":"chickpeas"}`

	file := strings.NewReader(inputFile)

	ctx := context.Background()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	var ingredients []string
	for record := range ch {
		if record.Error != nil {
			t.Errorf("Error reading the recipe request record. Got: %s", record.Error)
		}
		ingredients = append(ingredients, record.Request.Ingredient)
	}
	if len(ingredients) != 2 {
		t.Fatalf("Expected 2 recipe requests. Got: %d", len(ingredients))
	}
	if ingredients[0] != "rice" || ingredients[1] != "chickpeas" {
		t.Errorf("Unexpected ingredients: %v", ingredients)
	}
}

func TestReader_EmptyIngredient(t *testing.T) {
	reader := NewReader(strings.NewReader(`{"request_id":"1","ingredient":"  "}`), newTestLogger())

	record := <-reader.ReadAll(context.Background())
	if !errors.Is(record.Error, recipe.ErrEmptyIngredient) {
		t.Errorf("Expected ErrEmptyIngredient, got %v", record.Error)
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	// Large input with many lines
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, `{"ingredient":"rice"}`)
	}
	file := strings.NewReader(strings.Join(lines, "\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for range ch {
		count++
		if count == 5 {
			cancel() // Cancel after 5 records
			break
		}
	}

	// Should have stopped early
	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}

func TestReader_LineNumbers(t *testing.T) {
	inputFile := `{"request_id":"1","ingredient":"rice"}

{"invalid json}
{"request_id":"2","ingredient":"egg"}`

	file := strings.NewReader(inputFile)
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(context.Background())
	records := []InputRecord{}
	for record := range ch {
		records = append(records, record)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// Check line numbers
	if records[0].LineNumber != 1 {
		t.Errorf("first record should be line 1, got %d", records[0].LineNumber)
	}
	if records[1].LineNumber != 3 || records[1].Error == nil {
		t.Errorf("error record should be line 3, got %d (err=%v)", records[1].LineNumber, records[1].Error)
	}
	if records[2].LineNumber != 4 {
		t.Errorf("third record should be line 4, got %d", records[2].LineNumber)
	}
}

func TestFromIngredients(t *testing.T) {
	list, err := config.ParseIngredients(strings.NewReader("ingredients:\n  - rice\n  - okra\n"))
	if err != nil {
		t.Fatalf("ParseIngredients failed: %v", err)
	}

	records := FromIngredients(list)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[1].LineNumber != 2 || records[1].Request.Ingredient != "okra" {
		t.Errorf("unexpected second record: %+v", records[1])
	}
}
