// Package assistant orchestrates a full conversation turn: it gathers
// live entity state and preferences, asks the model for a reply, parses
// the reply into a structured intent, and hands actionable intents to
// the dispatcher.
//
// The package is composition-only. Every collaborator arrives through
// Deps; assistant itself holds no sockets, files or database handles,
// which keeps the turn pipeline testable with fakes.
package assistant
