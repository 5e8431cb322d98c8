package homeassistant

import "errors"

// Sentinel errors for Home Assistant operations.
var (
	// ErrNoEntities is returned when the entity list is empty; rendering
	// a template for zero entities would only waste a round trip.
	ErrNoEntities = errors.New("homeassistant: entity list is empty")

	// ErrTemplateFailed is returned when the template endpoint cannot be
	// reached or rejects the request.
	ErrTemplateFailed = errors.New("homeassistant: template render failed")
)
