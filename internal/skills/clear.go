package skills

var clearKeywords = []string{"очисти историю", "очистить чат", "новая сессия"}

// ClearHistorySkill wipes the conversation history through an injected
// callback. Terminal: the model would otherwise see the freshly
// cleared history in a confusing state.
type ClearHistorySkill struct {
	clear func()
}

func NewClearHistorySkill(clear func()) *ClearHistorySkill {
	return &ClearHistorySkill{clear: clear}
}

func (s *ClearHistorySkill) Name() string { return "clear_history" }

func (s *ClearHistorySkill) CanHandle(text string) bool {
	return containsAny(text, clearKeywords)
}

func (s *ClearHistorySkill) Handle(text string) Result {
	if s.clear != nil {
		s.clear()
	}
	return Result{
		Success:        true,
		Response:       "История диалога очищена. Начинаем новую беседу!",
		Data:           map[string]any{"type": "system", "action": "clear_history"},
		ShouldContinue: false,
	}
}
