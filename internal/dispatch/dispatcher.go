package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hearthline/hearth-core/internal/infrastructure/logging"
)

// Setting names written by virtual entity mutations.
const (
	settingLogMode    = "Log Mode"
	settingPreference = "Default Preference"
)

// Values written for the debug switch.
const (
	logModeDebug = "Debug"
	logModeInfo  = "Info"

	// turnOnAction is the action that maps the debug switch to Debug;
	// anything else maps to Info.
	turnOnAction = "turn_on"
)

// Settings is the narrow preference-store contract the dispatcher needs
// for virtual entity mutations.
type Settings interface {
	// Setting returns the current value of a named setting.
	Setting(name string) string

	// SetSetting writes a named setting and persists it.
	SetSetting(name, value string) error
}

// Config carries the endpoint addresses for the two outbound APIs.
type Config struct {
	// HAURL is the primary control plane base URL.
	HAURL string

	// HAToken is the bearer token for the control plane.
	HAToken string

	// BaseStationURL is the secondary device API base URL. No bearer
	// token is required for it.
	BaseStationURL string
}

// Dispatcher routes intents and performs their side effects. It holds no
// state across calls; each invocation is independent, and repeating an
// identical call repeats the identical side effect.
type Dispatcher struct {
	cfg       Config
	transport Transport
	settings  Settings
	registry  Registry
	log       *logging.Logger
}

// New creates a Dispatcher. The registry defaults to DefaultRegistry()
// when nil.
func New(cfg Config, transport Transport, settings Settings, registry Registry, log *logging.Logger) (*Dispatcher, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	if log == nil {
		log = logging.Default()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}

	return &Dispatcher{
		cfg:       cfg,
		transport: transport,
		settings:  settings,
		registry:  registry,
		log:       log.With("component", "dispatch"),
	}, nil
}

// Classify exposes the routing decision for observability (event and
// telemetry tagging). It does not execute anything.
func (d *Dispatcher) Classify(service string, target map[string]string, data, variables map[string]any) Kind {
	return Classify(d.registry, service, target, data, variables)
}

// Dispatch executes the side effect for a structured intent and returns
// the normalised result. Exactly one outbound call or one local settings
// mutation happens per invocation, never both. Dispatch never panics or
// returns an error; every failure mode is folded into the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, service string, target map[string]string, data, variables map[string]any) Result {
	domain, action, found := strings.Cut(service, ".")
	if !found || domain == "" || action == "" {
		return requestErr(fmt.Sprintf("malformed service %q", service))
	}

	entityID := target["entity_id"]
	kind := Classify(d.registry, service, target, data, variables)
	d.log.Debug("classified intent", "service", service, "entity_id", entityID, "kind", kind.String())

	switch kind {
	case KindVirtualDebug:
		return d.setVirtualDebug(action)

	case KindVirtualPreferences:
		return d.setVirtualPreference(data)

	case KindVirtualVolume:
		return d.setBaseStationVolume(ctx, data)

	case KindScriptCall:
		payload := map[string]any{"entity_id": entityID, "variables": variables}
		return d.callService(ctx, domain, action, payload)

	case KindNotify:
		// No entity_id for plain notify services.
		return d.callService(ctx, domain, action, clone(data))

	case KindNotifyChannel:
		// Echo channels use their own action path on the same domain.
		payload := mergeEntity(entityID, data)
		return d.callService(ctx, domain, "send_message", payload)

	default: // KindSelectOption, KindOrdinary
		return d.callService(ctx, domain, action, mergeEntity(entityID, data))
	}
}

// setVirtualDebug derives the log mode from the action name and writes
// it to the preference store. Zero network calls.
func (d *Dispatcher) setVirtualDebug(action string) Result {
	mode := logModeInfo
	if action == turnOnAction {
		mode = logModeDebug
	}

	if err := d.settings.SetSetting(settingLogMode, mode); err != nil {
		return requestErr(fmt.Sprintf("setting %s: %v", settingLogMode, err))
	}

	d.log.Info("virtual entity updated",
		"entity_id", EntityDebugSwitch,
		"setting", settingLogMode,
		"value", d.settings.Setting(settingLogMode),
	)
	return ok(codeVirtualOK)
}

// setVirtualPreference writes the chosen option as the default
// preference. Zero network calls.
func (d *Dispatcher) setVirtualPreference(data map[string]any) Result {
	option := asString(data["option"])

	if err := d.settings.SetSetting(settingPreference, option); err != nil {
		return requestErr(fmt.Sprintf("setting %s: %v", settingPreference, err))
	}

	d.log.Info("virtual entity updated",
		"entity_id", EntityPreferences,
		"setting", settingPreference,
		"value", d.settings.Setting(settingPreference),
	)
	return ok(codeVirtualOK)
}

// setBaseStationVolume converts the requested volume and calls the
// secondary device API. Conversion failures are reported client-side
// with no network call.
func (d *Dispatcher) setBaseStationVolume(ctx context.Context, data map[string]any) Result {
	raw := data["volume_level"]
	level, err := asFloat(raw)
	if err != nil {
		d.log.Error("volume conversion failed", "value", raw)
		return requestErr(fmt.Sprintf("cannot convert volume level %v to float", raw))
	}

	payload := map[string]any{"volume": map[string]any{"level": level}}
	url := d.cfg.BaseStationURL + "/control"
	d.log.Debug("base station call", "url", url, "level", level)

	return d.post(ctx, url, nil, payload)
}

// callService dispatches a payload to the control plane services API
// with bearer-token auth.
func (d *Dispatcher) callService(ctx context.Context, domain, action string, payload map[string]any) Result {
	url := fmt.Sprintf("%s/api/services/%s/%s", d.cfg.HAURL, domain, action)
	headers := map[string]string{
		"Authorization": "Bearer " + d.cfg.HAToken,
	}

	d.log.Info("control plane call", "url", url)
	d.log.Debug("control plane payload", "payload", payload)

	return d.post(ctx, url, headers, payload)
}

// post sends the request and normalises the HTTP outcome into a Result.
// Transport failures never propagate as errors.
func (d *Dispatcher) post(ctx context.Context, url string, headers map[string]string, payload map[string]any) Result {
	status, body, err := d.transport.Post(ctx, url, headers, payload)
	if err != nil {
		d.log.Error("service call failed", "url", url, "error", err)
		return requestErr(err.Error())
	}

	if status < 200 || status >= 300 {
		d.log.Error("remote error", "url", url, "status", status, "body", body)
		return remoteErr(status, body)
	}

	d.log.Debug("remote response", "status", status, "body", body)
	return ok(status)
}

// mergeEntity builds {entity_id} merged with data.
func mergeEntity(entityID string, data map[string]any) map[string]any {
	payload := map[string]any{"entity_id": entityID}
	for k, v := range data {
		payload[k] = v
	}
	return payload
}

// clone copies a data map so the payload never aliases the intent.
func clone(data map[string]any) map[string]any {
	payload := make(map[string]any, len(data))
	for k, v := range data {
		payload[k] = v
	}
	return payload
}

// asString renders a decoded JSON value as a string.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

// asFloat converts a decoded JSON value to a float64. The model may emit
// volume levels as numbers or strings.
func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported volume type %T", v)
	}
}
