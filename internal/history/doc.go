// Package history persists conversation turns.
//
// Turns are stored per conversation with a role and timestamped content
// so the model keeps time context across delayed exchanges. The
// orchestrator appends the cleaned response text, not the raw model
// reply, to keep the history free of dispatch JSON.
package history
