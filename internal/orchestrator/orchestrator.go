// Package orchestrator owns the dispatch loop that ties the rule table, the
// shared project state, and the agent roster together. It is the only
// component that mutates state or fills mailboxes; everything it does happens
// on the caller's goroutine, except human response intake which may arrive
// from transport goroutines and is queued under a lock until the next cycle.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genesisforge/genesis/internal/agent"
	"github.com/genesisforge/genesis/internal/message"
	"github.com/genesisforge/genesis/internal/state"
	"github.com/genesisforge/genesis/internal/workflow"
)

// Logger is the minimal logging dependency. A nil Logger is valid.
type Logger interface {
	Printf(format string, args ...any)
}

// Batch caps per dispatch cycle. Bounding both drains keeps a chatty run from
// starving agent activation.
const (
	maxHumanInputsPerCycle      = 5
	maxInternalMessagesPerCycle = 10
)

// Message types that leave the orchestrator waiting for a human answer.
var awaitingResponseTypes = map[string]bool{
	"QUESTION":       true,
	"CRITICAL_ISSUE": true,
	"INSTRUCTION":    true,
}

// retryScope says which counter a retryable agent draws from.
type retryScope int

const (
	retryPerContext retryScope = iota
	retryGlobal
)

var retryableAgents = map[string]retryScope{
	"Quality Guardian": retryPerContext,
	"Deployment Master": retryGlobal,
}

// HumanPrompt is one outbound message for the human user.
type HumanPrompt struct {
	Timestamp time.Time
	Type      string
	Content   string
	Options   []string
	ContextID string
}

// HumanResponse is one inbound human answer.
type HumanResponse struct {
	Response  string
	ContextID string
}

// Orchestrator drives the whole build. All processing happens inside
// SubmitEvent and RunCycle on a single goroutine.
type Orchestrator struct {
	state    *state.State
	engine   *workflow.Engine
	registry *agent.Registry
	ledger   *Ledger
	internal *message.Mailbox
	logger   Logger
	now      func() time.Time
	newID    func() string

	mu         sync.Mutex
	responses  []HumanResponse
	prompts    []HumanPrompt
	lastPrompt *HumanPrompt
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithIDGenerator replaces context id minting, primarily for tests.
func WithIDGenerator(newID func() string) Option {
	return func(o *Orchestrator) { o.newID = newID }
}

// New wires an orchestrator. The registry's registration order is the
// activation order of every cycle.
func New(st *state.State, engine *workflow.Engine, registry *agent.Registry, logger Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:    st,
		engine:   engine,
		registry: registry,
		ledger:   NewLedger(),
		internal: message.NewMailbox(),
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() *state.State { return o.state }

func (o *Orchestrator) Ledger() *Ledger { return o.ledger }

// Start kicks off a build from a raw user idea.
func (o *Orchestrator) Start(ctx context.Context, userIdea string) {
	o.logf("starting build for idea: %q", userIdea)
	if err := o.state.Set("app_idea", userIdea); err != nil {
		o.logf("record app idea: %v", err)
	}
	o.SubmitEvent(ctx, "start", map[string]any{"user_idea": userIdea})
}

// PushResponse queues a human answer for the next cycle. Safe to call from
// any goroutine; nothing is processed until RunCycle drains the queue.
func (o *Orchestrator) PushResponse(response, contextID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.responses = append(o.responses, HumanResponse{Response: response, ContextID: contextID})
}

// TakePrompts drains the outbound human prompt queue. Safe to call from any
// goroutine.
func (o *Orchestrator) TakePrompts() []HumanPrompt {
	o.mu.Lock()
	defer o.mu.Unlock()
	prompts := o.prompts
	o.prompts = nil
	return prompts
}

// LastPrompt returns the most recent prompt sent to the human, whether or not
// it has been taken. Safe to call from any goroutine.
func (o *Orchestrator) LastPrompt() (HumanPrompt, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastPrompt == nil {
		return HumanPrompt{}, false
	}
	return *o.lastPrompt, true
}

// Done reports whether the project reached a terminal status.
func (o *Orchestrator) Done() bool {
	status := o.state.Status()
	return status == state.StatusLive || status == state.StatusCancelled
}

// RunCycle executes one cooperative tick:
//  1. drain queued human responses (bounded batch),
//  2. activate every agent once in registration order,
//  3. drain the internal message queue (bounded batch).
//
// Each drained item runs its matched handler's actions to completion before
// the next item is looked at.
func (o *Orchestrator) RunCycle(ctx context.Context) {
	for _, response := range o.takeResponses(maxHumanInputsPerCycle) {
		o.handleHumanInput(ctx, response)
	}

	for _, a := range o.registry.All() {
		if out, ok := a.Activate(ctx); ok {
			o.internal.Enqueue(out)
		}
	}

	for processed := 0; processed < maxInternalMessagesPerCycle; processed++ {
		msg, ok := o.internal.Pop()
		if !ok {
			break
		}
		o.processInternal(ctx, msg)
	}
}

// SubmitEvent feeds one event through the rule table and executes the
// prescribed actions synchronously, in order.
func (o *Orchestrator) SubmitEvent(ctx context.Context, kind string, event map[string]any) {
	actions := o.engine.ProcessEvent(kind, event, o.state.Data())
	if len(actions) == 0 {
		return
	}
	o.logf("executing %d actions for %s event", len(actions), kind)
	for _, resolved := range actions {
		o.executeAction(ctx, resolved.Action, resolved.Event)
	}
}

func (o *Orchestrator) takeResponses(limit int) []HumanResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.responses) == 0 {
		return nil
	}
	n := len(o.responses)
	if n > limit {
		n = limit
	}
	batch := make([]HumanResponse, n)
	copy(batch, o.responses[:n])
	o.responses = o.responses[n:]
	return batch
}

func (o *Orchestrator) handleHumanInput(ctx context.Context, response HumanResponse) {
	contextID := response.ContextID
	if contextID == "" {
		contextID = o.state.PendingApprovalContext()
	}
	o.logf("human input for context %s: %q", shortID(contextID), response.Response)

	if o.state.PendingApprovalContext() == contextID {
		o.state.SetPendingApprovalContext("")
	}

	o.SubmitEvent(ctx, "human_input", map[string]any{
		"response":   response.Response,
		"context_id": contextID,
	})
}

func (o *Orchestrator) processInternal(ctx context.Context, msg message.Message) {
	if msg.Recipient != agent.Orchestrator {
		if target, ok := o.registry.Get(msg.Recipient); ok {
			target.Mailbox().Enqueue(msg)
			o.logf("routed %s message to %s", msg.Kind, msg.Recipient)
		} else {
			o.logf("dropping message for unknown recipient %q", msg.Recipient)
		}
		return
	}

	switch msg.Kind {
	case message.KindResult, message.KindStatusUpdate:
		o.SubmitEvent(ctx, "agent_result", map[string]any{
			"sender":     msg.Sender,
			"type":       string(msg.Kind),
			"content":    msg.Payload,
			"context_id": msg.ContextID,
		})
	default:
		o.logf("ignoring %s message from %s", msg.Kind, msg.Sender)
	}
}

func (o *Orchestrator) executeAction(ctx context.Context, action workflow.Action, event map[string]any) {
	switch action.Type {
	case workflow.ActionUpdateState:
		o.executeUpdateState(action, event)
	case workflow.ActionSendHumanMessage:
		o.executeSendHumanMessage(action, event)
	case workflow.ActionDelegateTask:
		o.executeDelegateTask(action, event)
	case workflow.ActionCheckCondition:
		// Consumed inside the engine; nothing to execute.
	default:
		o.logf("unknown action type %q, skipping", action.Type)
	}
}

func (o *Orchestrator) executeUpdateState(action workflow.Action, event map[string]any) {
	value := workflow.Resolve(action.Value, event, o.state.Data())
	if err := o.state.Set(action.Path, value); err != nil {
		// State already logged the rejected path; the run continues.
		return
	}
}

func (o *Orchestrator) executeSendHumanMessage(action workflow.Action, event map[string]any) {
	content := workflow.ResolveString(action.Content, event, o.state.Data())

	options := make([]string, 0, len(action.Options))
	for _, option := range action.Options {
		options = append(options, workflow.ResolveString(option, event, o.state.Data()))
	}

	contextID := ""
	if action.ContextID != "" {
		contextID = workflow.ResolveString(action.ContextID, event, o.state.Data())
	}
	if contextID == "" {
		contextID = eventContextID(event)
	}
	if contextID == "" {
		contextID = o.newID()
	}

	o.sendToHuman(action.MessageType, content, options, contextID)
}

func (o *Orchestrator) sendToHuman(messageType, content string, options []string, contextID string) {
	prompt := HumanPrompt{
		Timestamp: o.now(),
		Type:      messageType,
		Content:   content,
		Options:   options,
		ContextID: contextID,
	}

	o.mu.Lock()
	o.prompts = append(o.prompts, prompt)
	o.lastPrompt = &prompt
	o.mu.Unlock()

	// Only one explicit prompt can await a response at a time; a newer one
	// overwrites the awaited context.
	if awaitingResponseTypes[messageType] {
		o.state.SetPendingApprovalContext(contextID)
	}
	o.logf("queued %s for human (context %s)", messageType, shortID(contextID))
}

func (o *Orchestrator) executeDelegateTask(action workflow.Action, event map[string]any) {
	payload := resolveTaskContent(action.TaskContent, event, o.state.Data())

	contextID := ""
	if action.ContextID != "" {
		contextID = workflow.ResolveString(action.ContextID, event, o.state.Data())
	}
	if action.UseEventContext {
		if id := eventContextID(event); id != "" {
			contextID = id
		}
	}
	if contextID == "" {
		contextID = o.newID()
		o.logf("minted context %s for task %s", shortID(contextID), action.Task)
	}

	target, ok := o.registry.Get(action.Agent)
	if !ok {
		o.logf("cannot delegate task %q: unknown agent %q", action.Task, action.Agent)
		o.sendToHuman("ERROR",
			"Failed to delegate task '"+action.Task+"': agent '"+action.Agent+"' not found.",
			nil, contextID)
		return
	}

	// Retryable agents get the current counter stamped into the payload; the
	// delegation itself advances the counter, so a re-delegation under the
	// same context reads the incremented value.
	if scope, retryable := retryableAgents[action.Agent]; retryable {
		var attempt int
		switch scope {
		case retryPerContext:
			attempt = o.state.ModuleRetries(contextID)
			if err := o.state.Set("module_test_retries."+contextID, attempt+1); err != nil {
				o.logf("advance retry counter for %s: %v", shortID(contextID), err)
			}
		case retryGlobal:
			attempt = o.state.DeploymentRetries()
			if err := o.state.Set("deployment_retries", attempt+1); err != nil {
				o.logf("advance deployment retry counter: %v", err)
			}
		}
		payload["retry_attempt"] = attempt
		o.logf("stamped retry_attempt %d for %s", attempt, action.Agent)
	}

	o.ledger.Record(contextID, ContextEntry{
		TaskName:        action.Task,
		Agent:           action.Agent,
		OriginalPayload: payload,
	})
	if err := o.state.Set("current_task_contexts."+contextID, map[string]any{
		"task_name": action.Task,
		"agent":     action.Agent,
		"content":   payload,
	}); err != nil {
		o.logf("record task context %s: %v", shortID(contextID), err)
	}

	task := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		task[k] = v
	}
	task["task_name"] = action.Task

	target.Mailbox().Enqueue(message.New(agent.Orchestrator, action.Agent, message.KindTask, task, contextID, o.now()))
	o.logf("delegated %q to %s (context %s)", action.Task, action.Agent, shortID(contextID))
}

func resolveTaskContent(template any, event, stateData map[string]any) map[string]any {
	if template == nil {
		return map[string]any{}
	}
	resolved := workflow.Resolve(template, event, stateData)
	if m, ok := resolved.(map[string]any); ok {
		return m
	}
	return map[string]any{"content": resolved}
}

func eventContextID(event map[string]any) string {
	id, _ := event["context_id"].(string)
	return id
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.logger == nil {
		return
	}
	o.logger.Printf("[Orchestrator] "+format, args...)
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
