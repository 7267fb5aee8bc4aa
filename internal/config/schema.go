package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IngredientList is the YAML shape accepted by the batch command:
//
//	ingredients:
//	  - rice
//	  - lentils
type IngredientList struct {
	Ingredients []string `yaml:"ingredients"`
}

func LoadIngredients(path string) (*IngredientList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseIngredients(f)
}

func ParseIngredients(r io.Reader) (*IngredientList, error) {
	var list IngredientList
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient list: %w", err)
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}
	return &list, nil
}

func (l *IngredientList) Validate() error {
	if len(l.Ingredients) == 0 {
		return fmt.Errorf("ingredient list is empty")
	}
	for i, ingredient := range l.Ingredients {
		if strings.TrimSpace(ingredient) == "" {
			return fmt.Errorf("ingredient %d is empty", i+1)
		}
	}
	return nil
}
