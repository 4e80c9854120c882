package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Mas562/voiceai-assistant/internal/history"
	"github.com/Mas562/voiceai-assistant/internal/llm"
	"github.com/Mas562/voiceai-assistant/internal/skills"
)

type nopActions struct{}

func (nopActions) OpenURL(string) error     { return nil }
func (nopActions) OpenApp(skills.App) error { return nil }

// fakeModel counts calls and returns a canned reply.
type fakeModel struct {
	available bool
	reply     string
	panics    bool
	calls     int
}

func (f *fakeModel) IsAvailable() bool { return f.available }

func (f *fakeModel) GenerateResponse(_ context.Context, _ string, _ []llm.ConversationMessage, _ llm.PromptContext) (string, llm.Metadata) {
	f.calls++
	if f.panics {
		panic("model exploded")
	}
	return f.reply, llm.Metadata{Model: "fake-model"}
}

func (f *fakeModel) Stats() llm.Stats { return llm.Stats{Requests: f.calls} }

type harness struct {
	assistant *Assistant
	model     *fakeModel
	states    []State
	messages  []llm.ConversationMessage
	metas     []llm.Metadata
	errs      []string
}

func newHarness(t *testing.T, model *fakeModel, maxHistory int) *harness {
	t.Helper()
	h := &harness{model: model}

	hist := history.NewManager(maxHistory)
	sessCtx := NewContext("Иван", "Москва", nil)
	weather := skills.NewWeatherSkill("", "", sessCtx.Location)
	registry := skills.DefaultRegistry(weather, nopActions{}, hist.Clear)

	h.assistant = New(model, registry, hist, sessCtx)
	h.assistant.OnStateChange = func(_, next State) { h.states = append(h.states, next) }
	h.assistant.OnConversationUpdate = func(m llm.ConversationMessage) { h.messages = append(h.messages, m) }
	h.assistant.OnAIResponse = func(m llm.Metadata) { h.metas = append(h.metas, m) }
	h.assistant.OnError = func(e string) { h.errs = append(h.errs, e) }
	return h
}

func (h *harness) lastReply() string {
	if len(h.messages) == 0 {
		return ""
	}
	return h.messages[len(h.messages)-1].Content
}

func (h *harness) lastMeta() llm.Metadata {
	if len(h.metas) == 0 {
		return llm.Metadata{}
	}
	return h.metas[len(h.metas)-1]
}

func TestTerminalSkillSkipsModel(t *testing.T) {
	h := newHarness(t, &fakeModel{available: true, reply: "не должно появиться"}, 100)

	h.assistant.safeProcess("который час?")

	if h.model.calls != 0 {
		t.Fatalf("model consulted for a terminal skill")
	}
	if got := h.lastMeta().Source; got != "skill" {
		t.Fatalf("source = %q", got)
	}
	if !strings.Contains(h.lastReply(), "Сейчас") {
		t.Fatalf("unexpected reply: %q", h.lastReply())
	}
	// One transition into processing, one back to idle.
	if len(h.states) != 2 || h.states[0] != StateProcessing || h.states[1] != StateIdle {
		t.Fatalf("unexpected state sequence: %v", h.states)
	}
}

func TestHybridReplyCombinesSkillAndModel(t *testing.T) {
	h := newHarness(t, &fakeModel{available: true, reply: "Отличный результат!"}, 100)

	h.assistant.safeProcess("посчитай 2+2")

	if h.model.calls != 1 {
		t.Fatalf("model calls = %d", h.model.calls)
	}
	want := "2+2 = 4\n\nОтличный результат!"
	if h.lastReply() != want {
		t.Fatalf("reply = %q, want %q", h.lastReply(), want)
	}
	if got := h.lastMeta().Source; got != "hybrid" {
		t.Fatalf("source = %q", got)
	}
}

func TestModelOnlyReply(t *testing.T) {
	h := newHarness(t, &fakeModel{available: true, reply: "Сложный вопрос."}, 100)

	h.assistant.safeProcess("расскажи про черные дыры")

	if h.lastReply() != "Сложный вопрос." {
		t.Fatalf("reply = %q", h.lastReply())
	}
	if got := h.lastMeta().Source; got != "ai" {
		t.Fatalf("source = %q", got)
	}
}

func TestSkillReplyWhenModelUnavailable(t *testing.T) {
	h := newHarness(t, &fakeModel{available: false}, 100)

	h.assistant.safeProcess("какая погода?")

	if h.model.calls != 0 {
		t.Fatalf("unavailable model was consulted")
	}
	if got := h.lastMeta().Source; got != "skill" {
		t.Fatalf("source = %q", got)
	}
	if !strings.Contains(h.lastReply(), "демо-режим") {
		t.Fatalf("unexpected reply: %q", h.lastReply())
	}
}

func TestFallbackWhenNothingMatches(t *testing.T) {
	h := newHarness(t, &fakeModel{available: false}, 100)

	h.assistant.safeProcess("привет")

	if got := h.lastMeta().Source; got != "fallback" {
		t.Fatalf("source = %q", got)
	}
	if h.lastReply() == "" {
		t.Fatalf("empty fallback reply")
	}

	h.assistant.safeProcess("что ты умеешь?")
	if !strings.Contains(h.lastReply(), "Выполнять вычисления") {
		t.Fatalf("unexpected help reply: %q", h.lastReply())
	}
}

func TestHistoryStaysBounded(t *testing.T) {
	h := newHarness(t, &fakeModel{available: false}, 6)

	for i := 0; i < 10; i++ {
		h.assistant.safeProcess(fmt.Sprintf("привет номер %d", i))
	}

	msgs := h.assistant.History()
	if len(msgs) != 6 {
		t.Fatalf("history length = %d", len(msgs))
	}
	// Newest entries survive.
	if !strings.Contains(msgs[len(msgs)-2].Content, "номер 9") {
		t.Fatalf("unexpected tail: %+v", msgs[len(msgs)-2])
	}
}

func TestClearHistoryCommand(t *testing.T) {
	h := newHarness(t, &fakeModel{available: false}, 100)

	h.assistant.safeProcess("привет")
	h.assistant.safeProcess("очисти историю")

	// The confirmation itself is appended after the wipe.
	msgs := h.assistant.History()
	if len(msgs) != 1 || msgs[0].Role != "assistant" {
		t.Fatalf("unexpected history after clear: %+v", msgs)
	}
	if !strings.Contains(h.lastReply(), "очищена") {
		t.Fatalf("unexpected reply: %q", h.lastReply())
	}
}

func TestErrorStateAutoReverts(t *testing.T) {
	h := newHarness(t, &fakeModel{available: true, panics: true}, 100)
	h.assistant.revertDelay = 30 * time.Millisecond

	h.assistant.safeProcess("расскажи что-нибудь")

	if got := h.assistant.State(); got != StateError {
		t.Fatalf("state = %q, want error", got)
	}
	if len(h.errs) != 1 {
		t.Fatalf("error notifications = %d", len(h.errs))
	}

	deadline := time.After(time.Second)
	for h.assistant.State() != StateIdle {
		select {
		case <-deadline:
			t.Fatalf("error state never reverted to idle")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestProcessingPreservesSubmissionOrder(t *testing.T) {
	replies := make(chan string, 16)

	hist := history.NewManager(100)
	sessCtx := NewContext("Иван", "Москва", nil)
	weather := skills.NewWeatherSkill("", "", sessCtx.Location)
	registry := skills.DefaultRegistry(weather, nopActions{}, hist.Clear)

	a := New(&fakeModel{available: false}, registry, hist, sessCtx)
	a.OnConversationUpdate = func(m llm.ConversationMessage) {
		if m.Role == "assistant" {
			replies <- m.Content
		}
	}

	a.Start()
	defer a.Stop()
	a.Start() // double start is a no-op

	a.SendTextCommand("посчитай 1+1")
	a.SendTextCommand("посчитай 2+2")
	a.SendTextCommand("посчитай 3+3")

	want := []string{"1+1 = 2", "2+2 = 4", "3+3 = 6"}
	for _, w := range want {
		select {
		case got := <-replies:
			if got != w {
				t.Fatalf("out of order reply: got %q, want %q", got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for reply %q", w)
		}
	}
}
