// Package skills implements the keyword-triggered command handlers and
// the ordered dispatch over them. Matching is first-match-wins across a
// fixed priority list, each test being a case-insensitive substring
// check, so precedence between overlapping keyword sets stays
// deterministic and explainable.
package skills

import "strings"

// Result is the outcome of one skill invocation. ShouldContinue tells
// the orchestrator whether the AI model should still be consulted after
// the skill produced its output.
type Result struct {
	Success        bool
	Response       string
	Data           map[string]any
	ShouldContinue bool
}

// noMatch falls through to the AI model.
func noMatch() Result {
	return Result{Success: false, ShouldContinue: true}
}

// Skill is a single keyword-triggered capability.
type Skill interface {
	Name() string
	CanHandle(text string) bool
	Handle(text string) Result
}

// Registry dispatches text across skills in registration order.
type Registry struct {
	skills []Skill
}

func NewRegistry(skills ...Skill) *Registry {
	return &Registry{skills: skills}
}

// Check runs the first skill whose keywords match the text. When no
// skill matches, the result asks the orchestrator to continue with the
// AI model.
func (r *Registry) Check(text string) Result {
	lower := strings.ToLower(text)
	for _, s := range r.skills {
		if s.CanHandle(lower) {
			return s.Handle(text)
		}
	}
	return noMatch()
}

func (r *Registry) Skills() []Skill {
	out := make([]Skill, len(r.skills))
	copy(out, r.skills)
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// stripKeywords removes every recognized command keyword from the
// lowercased text, leaving the residual payload.
func stripKeywords(text string, keywords []string) string {
	out := strings.ToLower(text)
	for _, kw := range keywords {
		out = strings.ReplaceAll(out, kw, "")
	}
	return strings.TrimSpace(out)
}
