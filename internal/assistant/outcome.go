package assistant

import "time"

// Outcome is the normalized result of one processed reply. It mirrors
// the parsed intent plus the rendered dispatch result, and is what the
// API and the CLI print.
type Outcome struct {
	Service      string            `json:"service"`
	Target       map[string]string `json:"target,omitempty"`
	Data         map[string]any    `json:"data,omitempty"`
	Variables    map[string]any    `json:"variables,omitempty"`
	ResponseText string            `json:"response_text"`

	// HAResult is the rendered dispatch result ("200: OK",
	// "<code>: <body>" or "Request error: <detail>"). Absent when the
	// reply carried no service.
	HAResult string `json:"ha_result,omitempty"`
}

// Actionable reports whether the reply named a service to execute.
func (o Outcome) Actionable() bool {
	return o.Service != ""
}

// DispatchEvent is the payload published to the message bus after each
// dispatch attempt.
type DispatchEvent struct {
	Service   string    `json:"service"`
	EntityID  string    `json:"entity_id,omitempty"`
	Kind      string    `json:"kind"`
	Code      int       `json:"code"`
	OK        bool      `json:"ok"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}
