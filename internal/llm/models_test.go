package llm

import (
	"errors"
	"testing"

	"github.com/hearthline/hearth-core/internal/infrastructure/config"
)

func TestModelForLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"High", ModelHigh},
		{"Medium", ModelMedium},
		{"Low", ModelLow},
		{"", ModelLow},
		{"unknown", ModelLow},
	}

	for _, tt := range tests {
		if got := ModelForLevel(tt.level); got != tt.want {
			t.Errorf("ModelForLevel(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestVerbosityFor(t *testing.T) {
	if got := verbosityFor(ModelHigh); got != verbosityLow {
		t.Errorf("verbosityFor(%q) = %q, want %q", ModelHigh, got, verbosityLow)
	}
	if got := verbosityFor(ModelLow); got != verbosityMedium {
		t.Errorf("verbosityFor(%q) = %q, want %q", ModelLow, got, verbosityMedium)
	}
}

func TestNew_MissingAPIKey(t *testing.T) {
	_, err := New(config.OpenAIConfig{}, nil)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("New() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSetModelForLevel(t *testing.T) {
	c, err := New(config.OpenAIConfig{APIKey: "test-key", Model: ModelMedium}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	c.SetModelForLevel("High")
	if c.Model() != ModelHigh {
		t.Errorf("Model() = %q, want %q", c.Model(), ModelHigh)
	}
	if c.Verbosity() != verbosityLow {
		t.Errorf("Verbosity() = %q, want %q", c.Verbosity(), verbosityLow)
	}

	c.SetModelForLevel("anything else")
	if c.Model() != ModelLow {
		t.Errorf("Model() = %q, want %q", c.Model(), ModelLow)
	}
	if c.Verbosity() != verbosityMedium {
		t.Errorf("Verbosity() = %q, want %q", c.Verbosity(), verbosityMedium)
	}
}
