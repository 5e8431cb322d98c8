// Package logging provides structured logging for Hearth.
//
// It wraps log/slog with service defaults (service name, version) and
// translates configuration into handler setup. The effective level can be
// driven by the preference store's "Log Mode" setting via LevelForMode,
// which is how the debug virtual switch changes verbosity between runs.
package logging
