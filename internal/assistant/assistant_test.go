package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hearthline/hearth-core/internal/dispatch"
	"github.com/hearthline/hearth-core/internal/history"
	"github.com/hearthline/hearth-core/internal/homeassistant"
	"github.com/hearthline/hearth-core/internal/infrastructure/config"
	"github.com/hearthline/hearth-core/internal/llm"
	"github.com/hearthline/hearth-core/internal/prefs"
	"github.com/hearthline/hearth-core/internal/prompt"
)

type transportCall struct {
	url     string
	headers map[string]string
	payload any
}

type fakeTransport struct {
	calls  []transportCall
	status int
	body   string
	err    error
}

func (f *fakeTransport) Post(_ context.Context, url string, headers map[string]string, body any) (int, string, error) {
	f.calls = append(f.calls, transportCall{url: url, headers: headers, payload: body})
	if f.err != nil {
		return 0, "", f.err
	}
	return f.status, f.body, nil
}

type fakeHistory struct {
	stored    []history.Turn
	appended  []history.Turn
	appendErr error
	resets    []string
}

func (f *fakeHistory) Append(_ context.Context, turn *history.Turn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *turn)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, _ string, limit int) ([]history.Turn, error) {
	if limit < len(f.stored) {
		return f.stored[len(f.stored)-limit:], nil
	}
	return f.stored, nil
}

func (f *fakeHistory) Reset(_ context.Context, conversation string) error {
	f.resets = append(f.resets, conversation)
	return nil
}

type fakeEvents struct {
	topics   []string
	payloads []any
	err      error
}

func (f *fakeEvents) PublishJSON(topic string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, v)
	return nil
}

func (f *fakeEvents) EventTopic(name string) string {
	return "hearth/events/" + name
}

type metricRecord struct {
	domain, action, kind string
	code                 int
}

type fakeMetrics struct {
	records []metricRecord
}

func (f *fakeMetrics) WriteDispatchMetric(domain, action, kind string, code int, _ time.Duration) {
	f.records = append(f.records, metricRecord{domain: domain, action: action, kind: kind, code: code})
}

func writePrefsFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	content := `settings:
  Log Mode: Info
  Default Preference: Casual
user_prefs:
  Casual: keep replies short and relaxed
  Formal: be precise and well mannered
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing preferences file: %v", err)
	}
	return path
}

func loadPrefs(t *testing.T) *prefs.Store {
	t.Helper()
	store, err := prefs.Load(writePrefsFile(t))
	if err != nil {
		t.Fatalf("loading preferences: %v", err)
	}
	return store
}

func newDispatcher(t *testing.T, tr dispatch.Transport, settings dispatch.Settings) *dispatch.Dispatcher {
	t.Helper()
	d, err := dispatch.New(dispatch.Config{
		HAURL:          "http://ha.local:8123",
		HAToken:        "token",
		BaseStationURL: "http://station.local",
	}, tr, settings, nil, nil)
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}
	return d
}

func newTestAssistant(t *testing.T, deps Deps) *Assistant {
	t.Helper()

	store := loadPrefs(t)
	if deps.Prefs == nil {
		deps.Prefs = store
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = newDispatcher(t, &fakeTransport{status: 200, body: ""}, store)
	}
	if deps.Control == nil {
		deps.Control = homeassistant.New("http://ha.local:8123", "token", time.Second)
	}
	if deps.Model == nil {
		conn, err := llm.New(config.OpenAIConfig{APIKey: "test-key"}, nil)
		if err != nil {
			t.Fatalf("creating model connection: %v", err)
		}
		deps.Model = conn
	}
	if deps.Prompts == nil {
		deps.Prompts = loadPrompts(t, "default", "You are a home assistant.")
	}
	if deps.History == nil {
		deps.History = &fakeHistory{}
	}
	if deps.PromptName == "" {
		deps.PromptName = "default"
	}

	a, err := New(deps)
	if err != nil {
		t.Fatalf("creating assistant: %v", err)
	}
	return a
}

func loadPrompts(t *testing.T, name, text string) *prompt.Builder {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%s: %s\n", name, text)), 0600); err != nil {
		t.Fatalf("writing prompts file: %v", err)
	}
	b, err := prompt.Load(path)
	if err != nil {
		t.Fatalf("loading prompts: %v", err)
	}
	return b
}

func TestNew_RequiredDeps(t *testing.T) {
	_, err := New(Deps{})
	if !errors.Is(err, ErrNilDispatcher) {
		t.Fatalf("New(Deps{}) error = %v, want ErrNilDispatcher", err)
	}
}

func TestProcessReply_Conversation(t *testing.T) {
	tr := &fakeTransport{status: 200}
	a := newTestAssistant(t, Deps{Dispatcher: newDispatcher(t, tr, loadPrefs(t))})

	out := a.ProcessReply(context.Background(), "Sure, the kitchen light is already off.")

	if out.Actionable() {
		t.Fatalf("plain reply reported actionable: %+v", out)
	}
	if out.ResponseText != "Sure, the kitchen light is already off." {
		t.Errorf("ResponseText = %q", out.ResponseText)
	}
	if out.HAResult != "" {
		t.Errorf("HAResult = %q, want empty", out.HAResult)
	}
	if len(tr.calls) != 0 {
		t.Errorf("transport called %d times for a plain reply", len(tr.calls))
	}
}

func TestProcessReply_Dispatches(t *testing.T) {
	tr := &fakeTransport{status: 200}
	events := &fakeEvents{}
	metrics := &fakeMetrics{}
	a := newTestAssistant(t, Deps{
		Dispatcher: newDispatcher(t, tr, loadPrefs(t)),
		Events:     events,
		Metrics:    metrics,
	})

	raw := `{"service":"light.turn_on","target":{"entity_id":"light.kitchen"},"data":{"brightness_pct":40},"response_text":"Turning on the kitchen light."}`
	out := a.ProcessReply(context.Background(), raw)

	if out.HAResult != "200: OK" {
		t.Errorf("HAResult = %q, want %q", out.HAResult, "200: OK")
	}
	if out.ResponseText != "Turning on the kitchen light." {
		t.Errorf("ResponseText = %q", out.ResponseText)
	}

	if len(tr.calls) != 1 {
		t.Fatalf("transport calls = %d, want 1", len(tr.calls))
	}
	if got, want := tr.calls[0].url, "http://ha.local:8123/api/services/light/turn_on"; got != want {
		t.Errorf("url = %q, want %q", got, want)
	}

	if len(metrics.records) != 1 {
		t.Fatalf("metric records = %d, want 1", len(metrics.records))
	}
	rec := metrics.records[0]
	if rec.domain != "light" || rec.action != "turn_on" || rec.kind != "ordinary" || rec.code != 200 {
		t.Errorf("metric record = %+v", rec)
	}

	if len(events.topics) != 1 {
		t.Fatalf("events published = %d, want 1", len(events.topics))
	}
	if events.topics[0] != "hearth/events/dispatch" {
		t.Errorf("event topic = %q", events.topics[0])
	}
	evt, okType := events.payloads[0].(DispatchEvent)
	if !okType {
		t.Fatalf("event payload type = %T", events.payloads[0])
	}
	if evt.Service != "light.turn_on" || evt.EntityID != "light.kitchen" || !evt.OK {
		t.Errorf("event = %+v", evt)
	}
}

func TestProcessReply_DispatchFailure(t *testing.T) {
	tr := &fakeTransport{err: errors.New("connection refused")}
	metrics := &fakeMetrics{}
	a := newTestAssistant(t, Deps{
		Dispatcher: newDispatcher(t, tr, loadPrefs(t)),
		Metrics:    metrics,
	})

	raw := `{"service":"light.turn_off","target":{"entity_id":"light.kitchen"},"response_text":"Done."}`
	out := a.ProcessReply(context.Background(), raw)

	if out.HAResult != "Request error: connection refused" {
		t.Errorf("HAResult = %q", out.HAResult)
	}
	if len(metrics.records) != 1 || metrics.records[0].code != 0 {
		t.Errorf("metric records = %+v, want one record with code 0", metrics.records)
	}
}

func TestProcessReply_EventPublishFailureIsNonFatal(t *testing.T) {
	tr := &fakeTransport{status: 200}
	a := newTestAssistant(t, Deps{
		Dispatcher: newDispatcher(t, tr, loadPrefs(t)),
		Events:     &fakeEvents{err: errors.New("broker down")},
	})

	raw := `{"service":"switch.turn_on","target":{"entity_id":"switch.fan"},"response_text":"ok"}`
	out := a.ProcessReply(context.Background(), raw)

	if out.HAResult != "200: OK" {
		t.Errorf("HAResult = %q, want %q despite publish failure", out.HAResult, "200: OK")
	}
}

func TestResetHistory(t *testing.T) {
	hist := &fakeHistory{}
	a := newTestAssistant(t, Deps{History: hist, Conversation: "living-room"})

	if err := a.ResetHistory(context.Background()); err != nil {
		t.Fatalf("ResetHistory: %v", err)
	}
	if len(hist.resets) != 1 || hist.resets[0] != "living-room" {
		t.Errorf("resets = %v", hist.resets)
	}
}

// completionReply builds the minimal chat completion body the client
// needs.
func completionReply(content string) string {
	body := map[string]any{
		"id":     "cmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": content},
			},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func TestRun_FullTurn(t *testing.T) {
	haSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/template" {
			t.Errorf("control plane path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `light.kitchen (Kitchen Light) state:off\n`+
			`input_select.intelligence_level (Intelligence Level) state:High\n`)
	}))
	defer haSrv.Close()

	var modelReqs []map[string]any
	reply := `{"service":"light.turn_on","target":{"entity_id":"light.kitchen"},"response_text":"On it."}`
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding completion request: %v", err)
		}
		modelReqs = append(modelReqs, req)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionReply(reply))
	}))
	defer llmSrv.Close()

	conn, err := llm.New(config.OpenAIConfig{APIKey: "test-key", BaseURL: llmSrv.URL + "/v1"}, nil)
	if err != nil {
		t.Fatalf("creating model connection: %v", err)
	}

	entitiesPath := filepath.Join(t.TempDir(), "entities.txt")
	entities := "light.kitchen\ninput_select.intelligence_level\n"
	if err := os.WriteFile(entitiesPath, []byte(entities), 0600); err != nil {
		t.Fatalf("writing entities file: %v", err)
	}

	tr := &fakeTransport{status: 200}
	hist := &fakeHistory{stored: []history.Turn{
		{Role: history.RoleUser, Content: "[2026-08-26 09:00:00] hello"},
		{Role: history.RoleAssistant, Content: "[2026-08-26 09:00:02] Hi there."},
	}}
	fixed := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)

	a := newTestAssistant(t, Deps{
		Dispatcher:   newDispatcher(t, tr, loadPrefs(t)),
		Control:      homeassistant.New(haSrv.URL, "token", time.Second),
		Model:        conn,
		History:      hist,
		EntitiesFile: entitiesPath,
		Now:          func() time.Time { return fixed },
	})

	out, err := a.Run(context.Background(), "turn on the kitchen light")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if out.Service != "light.turn_on" || out.HAResult != "200: OK" {
		t.Errorf("outcome = %+v", out)
	}
	if len(tr.calls) != 1 {
		t.Errorf("dispatch calls = %d, want 1", len(tr.calls))
	}

	if len(modelReqs) != 1 {
		t.Fatalf("model requests = %d, want 1", len(modelReqs))
	}
	req := modelReqs[0]

	// The intelligence selector read from the rendered state picks the
	// high tier.
	if got := req["model"]; got != llm.ModelHigh {
		t.Errorf("model = %v, want %q", got, llm.ModelHigh)
	}

	msgs, _ := req["messages"].([]any)
	// system + 2 history turns + context note + user message.
	if len(msgs) != 5 {
		t.Fatalf("messages sent = %d, want 5", len(msgs))
	}
	note, _ := msgs[3].(map[string]any)
	content, _ := note["content"].(string)
	for _, want := range []string{
		"Current Date: Wednesday, Aug 26, 2026",
		"Entity list and their current States:",
		"Valid Preference Names",
		"Active -> keep replies short and relaxed",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("context note missing %q:\n%s", want, content)
		}
	}

	if len(hist.appended) != 2 {
		t.Fatalf("appended turns = %d, want 2", len(hist.appended))
	}
	if got, want := hist.appended[0].Content, "[2026-08-26 10:30:00] turn on the kitchen light"; got != want {
		t.Errorf("user turn = %q, want %q", got, want)
	}
	// The stored assistant turn carries the cleaned response text, never
	// the raw JSON reply.
	if hist.appended[1].Role != history.RoleAssistant {
		t.Errorf("assistant turn role = %q", hist.appended[1].Role)
	}
	if got, want := hist.appended[1].Content, "[2026-08-26 10:30:00] On it."; got != want {
		t.Errorf("assistant turn = %q, want %q", got, want)
	}
}

func TestRun_MissingEntitiesFile(t *testing.T) {
	a := newTestAssistant(t, Deps{EntitiesFile: filepath.Join(t.TempDir(), "nope.txt")})

	if _, err := a.Run(context.Background(), "hello"); err == nil {
		t.Fatal("Run with missing entities file succeeded")
	}
}
