package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hearthline/hearth-core/internal/dispatch"
	"github.com/hearthline/hearth-core/internal/history"
	"github.com/hearthline/hearth-core/internal/homeassistant"
	"github.com/hearthline/hearth-core/internal/infrastructure/logging"
	"github.com/hearthline/hearth-core/internal/intent"
	"github.com/hearthline/hearth-core/internal/llm"
	"github.com/hearthline/hearth-core/internal/prefs"
	"github.com/hearthline/hearth-core/internal/prompt"
)

// EventPublisher posts dispatch events to the message bus. Satisfied by
// the MQTT client; nil disables event publishing.
type EventPublisher interface {
	PublishJSON(topic string, v any) error
	EventTopic(name string) string
}

// MetricsWriter records dispatch outcomes in the time-series store.
// Satisfied by the InfluxDB client; nil disables telemetry.
type MetricsWriter interface {
	WriteDispatchMetric(domain, action, kind string, code int, duration time.Duration)
}

// Deps carries the collaborators an Assistant composes. Events, Metrics,
// Logger and Now are optional.
type Deps struct {
	Prefs      *prefs.Store
	Dispatcher *dispatch.Dispatcher
	Control    *homeassistant.Client
	Model      *llm.Connection
	Prompts    *prompt.Builder
	History    history.Repository
	Logger     *logging.Logger

	Events  EventPublisher
	Metrics MetricsWriter

	// Conversation names the history thread. Defaults to "hearth".
	Conversation string

	// HistoryLimit caps how many prior turns are sent to the model.
	// Defaults to 20.
	HistoryLimit int

	// PromptName selects the system prompt from the prompt store.
	PromptName string

	// EntitiesFile lists the entity IDs whose state is rendered into the
	// model context.
	EntitiesFile string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Assistant runs the reply pipeline for one named conversation.
type Assistant struct {
	prefs      *prefs.Store
	dispatcher *dispatch.Dispatcher
	control    *homeassistant.Client
	model      *llm.Connection
	prompts    *prompt.Builder
	history    history.Repository
	log        *logging.Logger

	events  EventPublisher
	metrics MetricsWriter

	conversation string
	historyLimit int
	promptName   string
	entitiesFile string

	now func() time.Time
}

// New validates the required collaborators and applies defaults for the
// optional ones.
func New(deps Deps) (*Assistant, error) {
	switch {
	case deps.Dispatcher == nil:
		return nil, ErrNilDispatcher
	case deps.Control == nil:
		return nil, ErrNilControl
	case deps.Model == nil:
		return nil, ErrNilModel
	case deps.Prompts == nil:
		return nil, ErrNilPrompts
	case deps.History == nil:
		return nil, ErrNilHistory
	case deps.Prefs == nil:
		return nil, ErrNilPrefs
	}

	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Conversation == "" {
		deps.Conversation = "hearth"
	}
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 20
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Assistant{
		prefs:        deps.Prefs,
		dispatcher:   deps.Dispatcher,
		control:      deps.Control,
		model:        deps.Model,
		prompts:      deps.Prompts,
		history:      deps.History,
		log:          deps.Logger.With("component", "assistant"),
		events:       deps.Events,
		metrics:      deps.Metrics,
		conversation: deps.Conversation,
		historyLimit: deps.HistoryLimit,
		promptName:   deps.PromptName,
		entitiesFile: deps.EntitiesFile,
		now:          deps.Now,
	}, nil
}

// Run executes one full conversation turn for userMsg and returns the
// normalized outcome. The reply and the user message are appended to
// history with a timestamp prefix so the model keeps time context
// across turns.
func (a *Assistant) Run(ctx context.Context, userMsg string) (Outcome, error) {
	entities, err := homeassistant.ReadEntityList(a.entitiesFile)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading entity list: %w", err)
	}

	entityInfo, err := a.control.RenderTemplate(ctx, entities)
	if err != nil {
		return Outcome{}, fmt.Errorf("rendering entity states: %w", err)
	}

	level := homeassistant.IntelligenceLevel(entityInfo)
	a.model.SetModelForLevel(level)

	systemPrompt, err := a.prompts.Get(a.promptName)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading system prompt: %w", err)
	}

	turns, err := a.history.Recent(ctx, a.conversation, a.historyLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading history: %w", err)
	}
	msgs := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
	}

	reply, err := a.model.Complete(ctx, systemPrompt, msgs, a.contextNote(entityInfo), userMsg)
	if err != nil {
		return Outcome{}, fmt.Errorf("completing: %w", err)
	}

	out := a.ProcessReply(ctx, reply)

	// History writes are best-effort: a full outcome already exists and
	// losing one stored turn must not fail the request. The assistant
	// turn stores the cleaned response text, not the raw reply — the raw
	// reply is JSON naming entities and payloads, and what later turns
	// need is the conversational context.
	stamp := a.now().Format("[2006-01-02 15:04:05] ")
	a.appendTurn(ctx, history.RoleUser, stamp+userMsg)
	a.appendTurn(ctx, history.RoleAssistant, stamp+out.ResponseText)

	return out, nil
}

// ProcessReply parses a raw model reply and dispatches it when it names
// a service. Replies without a service are plain conversation and come
// back with an empty HAResult.
func (a *Assistant) ProcessReply(ctx context.Context, raw string) Outcome {
	in := intent.Parse(raw)

	out := Outcome{
		Service:      in.Service,
		Target:       in.Target,
		Data:         in.Data,
		Variables:    in.Variables,
		ResponseText: in.ResponseText,
	}
	if in.Service == "" {
		return out
	}

	start := time.Now()
	res := a.dispatcher.Dispatch(ctx, in.Service, in.Target, in.Data, in.Variables)
	out.HAResult = res.String()

	if res.OK() {
		a.log.Debug("dispatched",
			"service", in.Service, "entity_id", in.EntityID(), "result", out.HAResult)
	} else {
		a.log.Warn("dispatch failed",
			"service", in.Service, "entity_id", in.EntityID(), "result", out.HAResult)
	}

	a.observe(in, res, time.Since(start))
	return out
}

// ResetHistory clears the conversation thread.
func (a *Assistant) ResetHistory(ctx context.Context) error {
	if err := a.history.Reset(ctx, a.conversation); err != nil {
		return fmt.Errorf("resetting history: %w", err)
	}
	a.log.Info("history reset", "conversation", a.conversation)
	return nil
}

// contextNote assembles the volatile per-turn context sent to the model
// as an extra user message: date and time, rendered entity states, and
// the preference vocabulary with the active selection.
func (a *Assistant) contextNote(entityInfo string) string {
	now := a.now()

	var b strings.Builder
	fmt.Fprintf(&b, "Current Date: %s  Current Time: %s., ",
		now.Format("Monday, Jan 02, 2006"), now.Format("3:04 PM"))
	fmt.Fprintf(&b, "Entity list and their current States: %s, ", entityInfo)
	b.WriteString(a.prefs.ValidPreferenceNames())
	b.WriteString("., ")

	if active := a.prefs.ActivePreference(); active != "" {
		b.WriteString("Active -> " + active)
	} else {
		a.log.Info("no active preference configured")
	}

	return b.String()
}

func (a *Assistant) appendTurn(ctx context.Context, role, content string) {
	err := a.history.Append(ctx, &history.Turn{
		Conversation: a.conversation,
		Role:         role,
		Content:      content,
	})
	if err != nil {
		a.log.Warn("history append failed", "role", role, "error", err)
	}
}

// observe fans the dispatch outcome out to the optional event bus and
// telemetry sinks.
func (a *Assistant) observe(in intent.Intent, res dispatch.Result, elapsed time.Duration) {
	kind := a.dispatcher.Classify(in.Service, in.Target, in.Data, in.Variables)
	domain, action, _ := strings.Cut(in.Service, ".")

	if a.metrics != nil {
		a.metrics.WriteDispatchMetric(domain, action, kind.String(), res.Code, elapsed)
	}

	if a.events != nil {
		evt := DispatchEvent{
			Service:   in.Service,
			EntityID:  in.EntityID(),
			Kind:      kind.String(),
			Code:      res.Code,
			OK:        res.OK(),
			Result:    res.String(),
			Timestamp: a.now().UTC(),
		}
		if err := a.events.PublishJSON(a.events.EventTopic("dispatch"), evt); err != nil {
			a.log.Warn("dispatch event publish failed", "error", err)
		}
	}
}
