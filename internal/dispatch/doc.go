// Package dispatch routes structured intents to their side effects.
//
// Every invocation performs exactly one of:
//   - an outbound call to the Home Assistant services API
//   - an outbound call to the base-station device API
//   - a local preference store mutation (virtual entities)
//
// Routing is a pure function of (service, target, data, variables) given
// the fixed virtual-entity registry; Classify exposes it separately from
// execution so branch precedence is independently testable.
//
// The control plane's device addressing scheme (domain.entity) is reused
// for application settings: a handful of entity IDs look like devices but
// are intercepted before reaching the network and mutate local
// configuration instead. This package is the single place where that
// disambiguation happens.
//
// Outcomes are normalised into a single Result shape; callers only ever
// branch on whether the code lies in [200,300).
package dispatch
