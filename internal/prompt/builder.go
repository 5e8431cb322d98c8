// Package prompt loads named system prompts from a YAML file.
//
// The prompts file maps prompt names to their text:
//
//	hearth: |
//	  You are a home assistant controller...
//	chat: |
//	  You are a friendly conversational assistant...
package prompt

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrPromptNotFound is returned when a named prompt is absent.
var ErrPromptNotFound = errors.New("prompt: not found")

// Builder holds the loaded prompt set.
type Builder struct {
	prompts map[string]string
}

// Load reads the prompts file.
func Load(path string) (*Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompts file: %w", err)
	}

	prompts := map[string]string{}
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parsing prompts file: %w", err)
	}

	return &Builder{prompts: prompts}, nil
}

// Get returns the named prompt text.
func (b *Builder) Get(name string) (string, error) {
	text, found := b.prompts[name]
	if !found {
		return "", fmt.Errorf("%w: %q", ErrPromptNotFound, name)
	}
	return text, nil
}

// Len returns how many prompts are loaded; handy for startup logging.
func (b *Builder) Len() int {
	return len(b.prompts)
}
