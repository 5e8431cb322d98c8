package llm

import (
	"context"
	"fmt"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthline/hearth-core/internal/infrastructure/config"
	"github.com/hearthline/hearth-core/internal/infrastructure/logging"
)

// Message is one prior conversation turn sent to the model.
type Message struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the turn text, usually carrying a timestamp prefix.
	Content string
}

// Connection wraps the OpenAI chat completions API with model tier
// selection driven by the intelligence-level selector.
type Connection struct {
	client *openai.Client
	cfg    config.OpenAIConfig
	log    *logging.Logger

	mu        sync.RWMutex
	model     string
	verbosity string
}

// New creates a model connection. The API key is required; everything
// else falls back to configuration defaults.
func New(cfg config.OpenAIConfig, log *logging.Logger) (*Connection, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = logging.Default()
	}

	model := cfg.Model
	if model == "" {
		model = ModelMedium
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Connection{
		client:    openai.NewClientWithConfig(clientCfg),
		cfg:       cfg,
		log:       log.With("component", "llm"),
		model:     model,
		verbosity: verbosityFor(model),
	}, nil
}

// Model returns the currently selected model.
func (c *Connection) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// Verbosity returns the verbosity associated with the current model.
func (c *Connection) Verbosity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.verbosity
}

// SetModelForLevel switches the model tier to match the control plane's
// intelligence-level selector state.
func (c *Connection) SetModelForLevel(level string) {
	model := ModelForLevel(level)

	c.mu.Lock()
	c.model = model
	c.verbosity = verbosityFor(model)
	c.mu.Unlock()

	c.log.Debug("model selected", "level", level, "model", model)
}

// Complete sends the conversation to the model and returns the raw reply
// text.
//
// The request carries, in order: the system prompt, the prior history
// turns, an extra user-role context message (date/time, entity states,
// preference names), and finally the user message. Context data rides in
// a user message rather than the prompt because models do not expect
// volatile state there.
func (c *Connection) Complete(ctx context.Context, systemPrompt string, history []Message, contextNote, userMsg string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	if contextNote != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: contextNote,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMsg,
	})

	req := openai.ChatCompletionRequest{
		Model:     c.Model(),
		Messages:  messages,
		MaxTokens: c.cfg.MaxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
