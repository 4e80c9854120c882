// Package assistant owns the conversation: it consumes queued text
// commands one at a time, dispatches them across skills and the AI
// model, blends the outputs into a single reply and notifies the
// presentation collaborators.
package assistant

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/Mas562/voiceai-assistant/internal/history"
	"github.com/Mas562/voiceai-assistant/internal/llm"
	"github.com/Mas562/voiceai-assistant/internal/skills"
)

const (
	commandQueueSize = 64

	// How long the error state lingers before auto-reverting to idle.
	errorRevertDelay = 2 * time.Second

	// Bounded wait for the worker on Stop. An in-flight model call is
	// not cancelled mid-request, so a stop can be delayed up to the
	// request timeout.
	stopTimeout = 2 * time.Second

	hybridSeparator = "\n\n"
)

// ModelClient is the remote-model collaborator.
type ModelClient interface {
	IsAvailable() bool
	GenerateResponse(ctx context.Context, userMessage string, history []llm.ConversationMessage, pctx llm.PromptContext) (string, llm.Metadata)
	Stats() llm.Stats
}

// Stats aggregates orchestrator and model usage for reporting.
type Stats struct {
	ConversationMessages int
	Model                llm.Stats
	ModelAvailable       bool
	Context              ContextSnapshot
}

// Assistant is the conversation orchestrator. A single background
// worker drains the command queue, so history, context and the model
// client are only ever touched by one goroutine at a time.
type Assistant struct {
	model   ModelClient
	skills  *skills.Registry
	history *history.Manager
	context *Context
	rand    *rand.Rand

	// Fired from the worker goroutine. Set before Start.
	OnStateChange        func(old, new State)
	OnConversationUpdate func(msg llm.ConversationMessage)
	OnError              func(text string)
	OnAIResponse         func(meta llm.Metadata)

	commands chan string

	runMu   sync.Mutex
	running bool
	quit    chan struct{}
	wg      sync.WaitGroup

	stateMu     sync.Mutex
	state       State
	revertTimer *time.Timer
	revertDelay time.Duration
}

func New(model ModelClient, registry *skills.Registry, hist *history.Manager, sessCtx *Context) *Assistant {
	return &Assistant{
		model:       model,
		skills:      registry,
		history:     hist,
		context:     sessCtx,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		commands:    make(chan string, commandQueueSize),
		state:       StateIdle,
		revertDelay: errorRevertDelay,
	}
}

// Start spawns the command-processing worker. Starting twice is a
// no-op.
func (a *Assistant) Start() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.quit = make(chan struct{})

	a.setState(StateIdle)

	a.wg.Add(1)
	go a.processingLoop(a.quit)

	log.Printf("assistant started")
}

// Stop signals the worker to exit and waits for it with a bounded
// timeout, then forces the state back to idle.
func (a *Assistant) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	close(a.quit)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopTimeout):
		log.Printf("assistant worker did not stop in time")
	}

	a.setState(StateIdle)
	log.Printf("assistant stopped")
}

// SendTextCommand enqueues a command without blocking the caller.
func (a *Assistant) SendTextCommand(text string) {
	select {
	case a.commands <- text:
	default:
		log.Printf("command queue full, dropping: %q", text)
	}
}

func (a *Assistant) State() State {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state
}

func (a *Assistant) History() []llm.ConversationMessage {
	return a.history.All()
}

func (a *Assistant) ClearHistory() {
	a.history.Clear()
}

func (a *Assistant) Context() *Context {
	return a.context
}

func (a *Assistant) Stats() Stats {
	st := Stats{
		ConversationMessages: a.history.Len(),
		Context:              a.context.Snapshot(),
	}
	if a.model != nil {
		st.Model = a.model.Stats()
		st.ModelAvailable = a.model.IsAvailable()
	}
	return st
}

// processingLoop drains the queue strictly one command at a time,
// preserving submission order.
func (a *Assistant) processingLoop(quit chan struct{}) {
	defer a.wg.Done()
	for {
		select {
		case <-quit:
			return
		case cmd := <-a.commands:
			a.safeProcess(cmd)
		}
	}
}

// safeProcess keeps a single bad command from ever terminating the
// loop: any panic becomes an error-state notification.
func (a *Assistant) safeProcess(text string) {
	defer func() {
		if r := recover(); r != nil {
			a.handleError(fmt.Sprintf("Ошибка: %v", r))
		}
	}()
	a.processCommand(text)
}

func (a *Assistant) processCommand(text string) {
	a.setState(StateProcessing)
	log.Printf("processing command: %q", text)

	// Snapshot before appending: the client adds the current user
	// message itself when assembling the prompt.
	prior := a.history.All()

	userMsg := a.history.Append("user", text)
	a.notifyConversation(userMsg)
	a.context.Touch()

	skillRes := a.skills.Check(text)

	var reply string
	var meta llm.Metadata
	switch {
	case skillRes.Success && !skillRes.ShouldContinue:
		// The skill resolved the command and asked to stop here.
		reply = skillRes.Response
		meta = llm.Metadata{Source: "skill", SkillData: skillRes.Data}

	case a.model != nil && a.model.IsAvailable():
		aiReply, aiMeta := a.model.GenerateResponse(
			context.Background(), text, prior, a.promptContext())
		if skillRes.Success {
			reply = skillRes.Response + hybridSeparator + aiReply
			aiMeta.Source = "hybrid"
			aiMeta.SkillData = skillRes.Data
		} else {
			reply = aiReply
			aiMeta.Source = "ai"
		}
		meta = aiMeta

	case skillRes.Success:
		reply = skillRes.Response
		meta = llm.Metadata{Source: "skill", SkillData: skillRes.Data}

	default:
		reply = a.fallbackResponse(text)
		meta = llm.Metadata{Source: "fallback"}
	}

	assistantMsg := a.history.Append("assistant", reply)
	a.notifyConversation(assistantMsg)
	if a.OnAIResponse != nil {
		a.OnAIResponse(meta)
	}

	a.setState(StateIdle)
}

func (a *Assistant) promptContext() llm.PromptContext {
	return llm.PromptContext{
		Time:     time.Now().Format("15:04, 02.01.2006"),
		Location: a.context.Location(),
		UserName: a.context.UserName(),
	}
}

// setState performs one transition and fires exactly one state-change
// notification. A pending error auto-revert is cancelled when a newer
// transition supersedes it.
func (a *Assistant) setState(next State) {
	a.stateMu.Lock()
	if a.revertTimer != nil {
		a.revertTimer.Stop()
		a.revertTimer = nil
	}
	old := a.state
	a.state = next
	cb := a.OnStateChange
	a.stateMu.Unlock()

	if cb != nil {
		cb(old, next)
	}
}

func (a *Assistant) handleError(text string) {
	log.Printf("assistant error: %s", text)
	a.setState(StateError)

	if a.OnError != nil {
		a.OnError(text)
	}

	a.stateMu.Lock()
	a.revertTimer = time.AfterFunc(a.revertDelay, func() {
		a.setState(StateIdle)
	})
	a.stateMu.Unlock()
}

func (a *Assistant) notifyConversation(msg llm.ConversationMessage) {
	if a.OnConversationUpdate != nil {
		a.OnConversationUpdate(msg)
	}
}
