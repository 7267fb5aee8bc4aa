package recipe

import (
	"errors"
	"fmt"
	"time"
)

const (
	// Temperature and MaxTokens are sent with every generation request.
	Temperature = 0.8
	MaxTokens   = 400
)

var ErrEmptyIngredient = errors.New("main ingredient must not be empty")

type Recipe struct {
	ID         string    `json:"id"`
	Ingredient string    `json:"ingredient"`
	Query      string    `json:"query"`
	Prompt     string    `json:"prompt"`
	Content    string    `json:"content"`
	StopReason string    `json:"stop_reason,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// GenerateRequest is the wire form used by the API, stream and batch inputs.
type GenerateRequest struct {
	RequestID  string `json:"request_id,omitempty"`
	Ingredient string `json:"ingredient"`
}

// Query builds the instruction sent to the model for a main ingredient.
func Query(mainIngredient string) string {
	return fmt.Sprintf("Generate a recipe with %s as the main ingredient", mainIngredient)
}
