// Package agent implements the worker agents that build the app. Each agent
// owns a FIFO mailbox and is activated cooperatively by the orchestrator: one
// activation pops at most one message, handles it, and produces at most one
// outbound message. Agents never call each other directly.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/genesisforge/genesis/internal/llm"
	"github.com/genesisforge/genesis/internal/message"
)

// Logger is the minimal logging dependency. A nil Logger is valid.
type Logger interface {
	Printf(format string, args ...any)
}

// Orchestrator is the mailbox name agents address their results to.
const Orchestrator = "Orchestrator"

// Responder produces the model response for one prompt. Production agents use
// an LLMResponder; tests inject scripted responders.
type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, prompt string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// LLMResponder sends prompts to a chat model with a fixed system message.
type LLMResponder struct {
	client llm.Client
	system string
}

// NewLLMResponder binds a client and a per-agent system message.
func NewLLMResponder(client llm.Client, system string) *LLMResponder {
	return &LLMResponder{client: client, system: system}
}

func (r *LLMResponder) Respond(ctx context.Context, prompt string) (string, error) {
	return r.client.Complete(ctx, []llm.ChatMessage{
		{Role: "system", Content: r.system},
		{Role: "user", Content: prompt},
	})
}

// HandleFunc processes one task payload and returns the result content. The
// returned map becomes the result message payload; an error becomes a failed
// status update instead.
type HandleFunc func(ctx context.Context, task map[string]any) (map[string]any, error)

// Agent is one mailbox-owning worker.
type Agent struct {
	name      string
	role      string
	mailbox   *message.Mailbox
	knowledge *Knowledge
	handle    HandleFunc
	logger    Logger
	now       func() time.Time
}

// Option customizes an Agent.
type Option func(*Agent)

// WithClock replaces the wall clock, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Agent) { a.now = now }
}

// WithKnowledge shares a pre-built knowledge store. Builders that write notes
// from their handler pass their own store here so it stays reachable through
// the Agent.
func WithKnowledge(k *Knowledge) Option {
	return func(a *Agent) {
		if k != nil {
			a.knowledge = k
		}
	}
}

// New creates an agent with an empty mailbox and knowledge store.
func New(name, role string, handle HandleFunc, logger Logger, opts ...Option) *Agent {
	a := &Agent{
		name:      name,
		role:      role,
		mailbox:   message.NewMailbox(),
		knowledge: NewKnowledge(),
		handle:    handle,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Name() string { return a.name }

func (a *Agent) Role() string { return a.role }

// Mailbox exposes the agent's inbound queue for the orchestrator to fill.
func (a *Agent) Mailbox() *message.Mailbox { return a.mailbox }

// Knowledge exposes the agent's private note store.
func (a *Agent) Knowledge() *Knowledge { return a.knowledge }

// Activate pops at most one message from the mailbox and handles it. A task
// yields exactly one outbound message: a result on success, or a failed
// status update when the handler errors. The context id is copied verbatim so
// the orchestrator can correlate the outcome with the delegation. Feedback is
// only logged. The second return is false when nothing outbound was produced.
func (a *Agent) Activate(ctx context.Context) (message.Message, bool) {
	msg, ok := a.mailbox.Pop()
	if !ok {
		return message.Message{}, false
	}

	switch msg.Kind {
	case message.KindTask:
		return a.handleTask(ctx, msg), true
	case message.KindFeedback:
		a.logf("received feedback: %v", msg.Payload)
		return message.Message{}, false
	default:
		a.logf("ignoring message of kind %q from %s", msg.Kind, msg.Sender)
		return message.Message{}, false
	}
}

func (a *Agent) handleTask(ctx context.Context, msg message.Message) message.Message {
	taskName, _ := msg.Payload["task_name"].(string)
	if taskName == "" {
		taskName = "unnamed_task"
	}
	a.logf("processing task %q (context %s)", taskName, shortID(msg.ContextID))

	result, err := a.handle(ctx, msg.Payload)
	if err != nil {
		a.logf("task %q failed: %v", taskName, err)
		payload := map[string]any{
			"task_name": taskName,
			"status":    "failed",
			"message":   fmt.Sprintf("task failed: %v", err),
		}
		return message.New(a.name, Orchestrator, message.KindStatusUpdate, payload, msg.ContextID, a.now())
	}

	if result == nil {
		result = map[string]any{}
	}
	result["task_name"] = taskName
	return message.New(a.name, Orchestrator, message.KindResult, result, msg.ContextID, a.now())
}

func (a *Agent) logf(format string, args ...any) {
	if a.logger == nil {
		return
	}
	a.logger.Printf("[%s] "+format, append([]any{a.name}, args...)...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "none"
	}
	return id
}
