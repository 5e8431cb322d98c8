package dispatch

// VirtualKind identifies which handler backs a virtual entity.
type VirtualKind int

const (
	// VirtualNone means the entity is a real control-plane entity.
	VirtualNone VirtualKind = iota

	// VirtualDebug is the debug logging switch (switch.debug). Turning
	// it on or off writes the "Log Mode" setting.
	VirtualDebug

	// VirtualPreferences is the preference profile selector
	// (input_select.preferences). Selecting an option writes the
	// "Default Preference" setting.
	VirtualPreferences

	// VirtualVolume is the base-station speaker
	// (media_player.base_speaker). Volume changes go to the secondary
	// device API instead of the control plane.
	VirtualVolume
)

// Reserved virtual entity identifiers. These are also listed in the
// entities file so the model treats them like any other device.
const (
	EntityDebugSwitch = "switch.debug"
	EntityPreferences = "input_select.preferences"
	EntityBaseSpeaker = "media_player.base_speaker"
)

// Registry maps entity identifiers to virtual handler kinds. It is fixed
// at construction and immutable during a run.
type Registry map[string]VirtualKind

// DefaultRegistry returns the registry of reserved virtual entities.
func DefaultRegistry() Registry {
	return Registry{
		EntityDebugSwitch: VirtualDebug,
		EntityPreferences: VirtualPreferences,
		EntityBaseSpeaker: VirtualVolume,
	}
}

// Kind returns the virtual handler kind for an entity, or VirtualNone
// for real entities.
func (r Registry) Kind(entityID string) VirtualKind {
	return r[entityID]
}
