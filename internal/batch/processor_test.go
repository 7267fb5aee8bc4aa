package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sreedevigattu/recipegenerator/internal/llm"
	"github.com/sreedevigattu/recipegenerator/internal/llm/mocks"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
	"go.uber.org/mock/gomock"
)

func collect(ch <-chan OutputRecord) []OutputRecord {
	var results []OutputRecord
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func TestProcessor_SequentialInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockLLMClient(ctrl)

	gomock.InOrder(
		mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Content: "Pulao"}, nil),
		mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(nil, errors.New("503 Service Unavailable")),
		mockClient.EXPECT().InvokeModel(gomock.Any(), gomock.Any()).Return(&llm.LLMResponse{Content: "Omelette"}, nil),
	)

	generator := recipe.NewGenerator(mockClient, "azureml", newTestLogger())
	processor := NewProcessor(generator, newTestLogger())

	records := []InputRecord{
		{LineNumber: 1, Request: recipe.GenerateRequest{RequestID: "a", Ingredient: "rice"}},
		{LineNumber: 2, Request: recipe.GenerateRequest{RequestID: "b", Ingredient: "beans"}},
		{LineNumber: 3, Error: errors.New("line 3: invalid JSON")},
		{LineNumber: 4, Request: recipe.GenerateRequest{RequestID: "c", Ingredient: "egg"}},
	}

	results := collect(processor.Process(context.Background(), records))
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	if results[0].Failed() || results[0].Recipe.Content != "Pulao" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if !results[1].Failed() || !strings.Contains(results[1].Error, "503") {
		t.Errorf("Expected upstream failure, got %+v", results[1])
	}
	if !results[2].Failed() || results[2].LineNumber != 3 {
		t.Errorf("Expected read error passed through, got %+v", results[2])
	}
	if results[3].ID != "c" || results[3].Recipe.Content != "Omelette" {
		t.Errorf("Unexpected last result: %+v", results[3])
	}
}

func TestProcessor_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockClient := mocks.NewMockLLMClient(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := NewProcessor(recipe.NewGenerator(mockClient, "azureml", newTestLogger()), newTestLogger())
	cancel()

	results := collect(processor.Process(ctx, []InputRecord{{LineNumber: 1, Request: recipe.GenerateRequest{Ingredient: "rice"}}}))
	if len(results) != 0 {
		t.Errorf("Expected no results after cancel, got %d", len(results))
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	writer.Write(OutputRecord{ID: "a", LineNumber: 1, Ingredient: "rice", Recipe: &recipe.Recipe{ID: "a", Content: "Pulao"}})
	writer.Write(OutputRecord{LineNumber: 2, Ingredient: "beans", Error: "boom"})
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var second OutputRecord
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("Invalid JSON line: %v", err)
	}
	if second.Error != "boom" || second.Recipe != nil {
		t.Errorf("Unexpected record: %+v", second)
	}
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer
	writer, _ := NewWriter(&buf, FormatSummary, newTestLogger())

	writer.Write(OutputRecord{ID: "a", LineNumber: 1, Ingredient: "rice"})
	writer.Write(OutputRecord{LineNumber: 2, Ingredient: "beans", Error: "boom"})

	if buf.Len() != 0 {
		t.Error("Expected summary to be written on Close only")
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Total: 2  Succeeded: 1  Failed: 1") {
		t.Errorf("Unexpected summary: %q", out)
	}
	if !strings.Contains(out, "beans") || !strings.Contains(out, "failed") {
		t.Errorf("Expected failed row in summary: %q", out)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, "csv", newTestLogger()); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
