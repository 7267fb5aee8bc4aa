// Package prompt renders fixed prompt templates with {name} substitution slots.
package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var ErrMissingVariable = errors.New("missing prompt variable")

var slotPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// AnswerQuery wraps a user query before it is sent to the model.
var AnswerQuery = MustNew("Answer the user query.\n{query}\n", "query")

type Template struct {
	Text           string
	InputVariables []string
}

// New checks that the slots found in text are exactly the declared input variables.
func New(text string, inputVariables ...string) (*Template, error) {
	slots := Slots(text)
	declared := slices.Clone(inputVariables)
	slices.Sort(declared)
	declared = slices.Compact(declared)

	if !slices.Equal(slots, declared) {
		return nil, fmt.Errorf("template slots %v do not match input variables %v", slots, declared)
	}

	return &Template{
		Text:           text,
		InputVariables: declared,
	}, nil
}

func MustNew(text string, inputVariables ...string) *Template {
	t, err := New(text, inputVariables...)
	if err != nil {
		panic(err)
	}
	return t
}

// Slots returns the sorted, de-duplicated slot names in text.
func Slots(text string) []string {
	var names []string
	for _, m := range slotPattern.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (t *Template) Format(values map[string]string) (string, error) {
	pairs := make([]string, 0, len(t.InputVariables)*2)
	for _, name := range t.InputVariables {
		value, ok := values[name]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingVariable, name)
		}
		pairs = append(pairs, "{"+name+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(t.Text), nil
}

// Render fills a single-variable template.
func (t *Template) Render(value string) (string, error) {
	if len(t.InputVariables) != 1 {
		return "", fmt.Errorf("render needs a single-variable template, got %d variables", len(t.InputVariables))
	}
	return t.Format(map[string]string{t.InputVariables[0]: value})
}
