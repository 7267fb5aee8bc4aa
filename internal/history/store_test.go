package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{input: 0, want: DefaultListLimit},
		{input: -5, want: DefaultListLimit},
		{input: 10, want: 10},
		{input: 1000, want: MaxListLimit},
	}

	for _, tt := range tests {
		if got := ClampLimit(tt.input); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestStore_SaveAndList(t *testing.T) {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	store, err := New(ctx, databaseURL, &logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	saved := &recipe.Recipe{
		ID:         "history-test-" + time.Now().Format("150405.000000"),
		Ingredient: "rice",
		Query:      recipe.Query("rice"),
		Prompt:     "Answer the user query.\n" + recipe.Query("rice") + "\n",
		Content:    "Rice and beans",
		Provider:   "azureml",
		CreatedAt:  time.Now().UTC().Add(time.Hour),
	}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	defer store.Pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, saved.ID)

	recipes, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recipes) != 1 || recipes[0].ID != saved.ID {
		t.Errorf("Expected newest recipe %s first, got %+v", saved.ID, recipes)
	}
}
