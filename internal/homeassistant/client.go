package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Client talks to the Home Assistant HTTP API for everything outside the
// dispatch path: currently the template endpoint used to snapshot entity
// states for the model's context.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the given base URL and bearer token.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// RenderTemplate asks Home Assistant to render a state summary for the
// given entities: one line per entity with its friendly name and state.
// The response is flattened to a single whitespace-normalised string.
func (c *Client) RenderTemplate(ctx context.Context, entityIDs []string) (string, error) {
	if len(entityIDs) == 0 {
		return "", ErrNoEntities
	}

	body, err := json.Marshal(map[string]string{
		"template": stateTemplate(entityIDs),
	})
	if err != nil {
		return "", fmt.Errorf("encoding template request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/template", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building template request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplateFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading template response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d: %s", ErrTemplateFailed, resp.StatusCode, respBody)
	}

	return cleanTemplateText(string(respBody)), nil
}

// stateTemplate builds the Jinja template that lists each entity with its
// friendly name (falling back to a titled entity name) and state.
func stateTemplate(entityIDs []string) string {
	quoted := make([]string, len(entityIDs))
	for i, e := range entityIDs {
		quoted[i] = fmt.Sprintf("%q", e)
	}

	return "{% for e in [" + strings.Join(quoted, ",") + "] %}" +
		`{{ e }} ({{ state_attr(e, "friendly_name") or ` +
		`e.split('.')[1]|replace('_',' ')|title }}) state:{{ states(e) }}\n` +
		"{% endfor %}"
}

// cleanTemplateText unescapes newlines and collapses runs of whitespace.
func cleanTemplateText(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	return strings.Join(strings.Fields(text), " ")
}

// intelligencePattern extracts the state of the intelligence-level
// selector from rendered entity text.
var intelligencePattern = regexp.MustCompile(`input_select\.intelligence_level.*?state:(\w+)`)

// IntelligenceLevel returns the intelligence-level selector state found
// in rendered entity text, or "" when the selector is absent.
func IntelligenceLevel(text string) string {
	m := intelligencePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
