package dispatch

import "strings"

// Kind identifies the routing branch that handles an intent. Branches are
// evaluated in declaration order; the first match wins.
type Kind int

const (
	// KindScriptCall is a scripted automation invocation with parameters:
	// the payload carries entity_id plus the variables verbatim.
	KindScriptCall Kind = iota

	// KindVirtualPreferences selects a preference profile on the
	// reserved preferences virtual entity. No network call.
	KindVirtualPreferences

	// KindSelectOption selects an option on a real input_select entity.
	KindSelectOption

	// KindNotifyChannel is a notification channel whose wire shape
	// differs: the call is redirected to the send_message action and the
	// payload keeps the entity_id.
	KindNotifyChannel

	// KindNotify is an ordinary notification: the payload is the data
	// alone, with no entity_id.
	KindNotify

	// KindVirtualDebug flips the debug logging switch. No network call.
	KindVirtualDebug

	// KindVirtualVolume sets the base-station speaker volume via the
	// secondary device API.
	KindVirtualVolume

	// KindOrdinary is any other device service: entity_id merged with
	// data, dispatched to the control plane.
	KindOrdinary
)

// Service namespace prefixes that select dedicated branches.
const (
	scriptPrefix = "script."
	notifyPrefix = "notify."

	// echoChannelPrefix marks notification channels (Echo devices) that
	// need the send_message wire shape.
	echoChannelPrefix = "notify.echo_"

	// selectOptionService is the generic select-option action.
	selectOptionService = "input_select.select_option"
)

// String returns the branch name for logging and telemetry.
func (k Kind) String() string {
	switch k {
	case KindScriptCall:
		return "script_call"
	case KindVirtualPreferences:
		return "virtual_preferences"
	case KindSelectOption:
		return "select_option"
	case KindNotifyChannel:
		return "notify_channel"
	case KindNotify:
		return "notify"
	case KindVirtualDebug:
		return "virtual_debug"
	case KindVirtualVolume:
		return "virtual_volume"
	default:
		return "ordinary"
	}
}

// Classify picks the routing branch for an intent. It is a pure function
// of its inputs given a fixed registry: identical inputs always select
// the identical branch.
func Classify(reg Registry, service string, target map[string]string, data map[string]any, variables map[string]any) Kind {
	entityID := target["entity_id"]

	switch {
	case strings.HasPrefix(service, scriptPrefix) && len(variables) > 0:
		return KindScriptCall

	case service == selectOptionService && len(data) > 0:
		if reg.Kind(entityID) == VirtualPreferences {
			return KindVirtualPreferences
		}
		return KindSelectOption

	case strings.HasPrefix(service, notifyPrefix) && len(data) > 0:
		if strings.HasPrefix(service, echoChannelPrefix) {
			return KindNotifyChannel
		}
		return KindNotify

	default:
		switch {
		case reg.Kind(entityID) == VirtualDebug:
			return KindVirtualDebug
		case reg.Kind(entityID) == VirtualVolume && len(data) > 0:
			return KindVirtualVolume
		default:
			return KindOrdinary
		}
	}
}
