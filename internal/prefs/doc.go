// Package prefs is the YAML-backed preference store.
//
// It holds two kinds of data: application settings ("Log Mode",
// "Default Preference") and named user preference texts. The dispatch
// layer mutates settings when the model targets a virtual entity; the
// assistant reads preference texts into the model's context.
//
// Every mutation is persisted synchronously. The store assumes a single
// writer, matching the one-request-at-a-time execution model.
package prefs
