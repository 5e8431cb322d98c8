// Package homeassistant provides the Home Assistant client used outside
// the dispatch path.
//
// Service calls themselves go through the dispatch package's transport;
// this package covers the supporting reads: rendering the entity state
// snapshot the model sees, loading the exposed entity list, and reading
// the intelligence-level selector out of the rendered text.
package homeassistant
