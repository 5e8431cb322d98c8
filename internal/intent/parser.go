package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Intent is the structured form of a model reply.
//
// Service is either a well-formed "<domain>.<action>" string or empty.
// When empty, ResponseText carries the entire cleaned input and nothing
// is dispatched.
type Intent struct {
	Service      string            `json:"service"`
	Target       map[string]string `json:"target"`
	Variables    map[string]any    `json:"variables"`
	Data         map[string]any    `json:"data"`
	ResponseText string            `json:"response_text"`
}

// EntityID returns the target entity identifier, or "" if absent.
func (i Intent) EntityID() string {
	return i.Target["entity_id"]
}

// Code-fence sentinels. The model is instructed to reply with bare JSON
// but occasionally wraps it in markdown fences anyway; strip exactly one
// leading and one trailing fence line.
var (
	leadingFence  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	trailingFence = regexp.MustCompile("\n?```$")
)

// Parse converts a raw model reply into an Intent. It never fails: input
// that does not decode as JSON degrades to a chat-only intent whose
// ResponseText is the fence-stripped input verbatim.
//
// Parsed structure is trusted as-is; there is no schema validation beyond
// syntactic decode success.
func Parse(raw string) Intent {
	cleaned := stripFences(raw)

	var decoded struct {
		Service      *string           `json:"service"`
		Target       map[string]string `json:"target"`
		Variables    map[string]any    `json:"variables"`
		Data         map[string]any    `json:"data"`
		ResponseText string            `json:"response_text"`
	}

	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		// Fallback: treat the entire cleaned string as chat.
		return Intent{
			Target:       map[string]string{},
			Variables:    map[string]any{},
			Data:         map[string]any{},
			ResponseText: cleaned,
		}
	}

	it := Intent{
		Target:       decoded.Target,
		Variables:    decoded.Variables,
		Data:         decoded.Data,
		ResponseText: decoded.ResponseText,
	}
	if decoded.Service != nil {
		it.Service = *decoded.Service
	}
	if it.Target == nil {
		it.Target = map[string]string{}
	}
	if it.Variables == nil {
		it.Variables = map[string]any{}
	}
	if it.Data == nil {
		it.Data = map[string]any{}
	}
	return it
}

// stripFences removes one leading and one trailing code fence, if present.
func stripFences(raw string) string {
	cleaned := leadingFence.ReplaceAllString(strings.TrimSpace(raw), "")
	return trailingFence.ReplaceAllString(strings.TrimSpace(cleaned), "")
}
