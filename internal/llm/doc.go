// Package llm is the model connection.
//
// It wraps the go-openai chat completions client and owns model tier
// selection: the control plane exposes an intelligence-level selector
// entity, and its state picks the model used for the next turn.
package llm
