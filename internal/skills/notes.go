package skills

var (
	noteKeywords     = []string{"запомни", "запиши", "заметка", "запись"}
	reminderKeywords = []string{"напомни", "напоминание", "напомнить"}
)

// NoteSkill acknowledges a note request. Persistence is deliberately
// stubbed out.
type NoteSkill struct{}

func NewNoteSkill() *NoteSkill { return &NoteSkill{} }

func (s *NoteSkill) Name() string { return "note" }

func (s *NoteSkill) CanHandle(text string) bool {
	return containsAny(text, noteKeywords)
}

func (s *NoteSkill) Handle(text string) Result {
	return Result{
		Success:        true,
		Response:       "Я запомнил это. (В реальной версии заметки сохраняются)",
		Data:           map[string]any{"type": "note", "text": text},
		ShouldContinue: true,
	}
}

// ReminderSkill acknowledges a reminder request. Persistence is
// deliberately stubbed out.
type ReminderSkill struct{}

func NewReminderSkill() *ReminderSkill { return &ReminderSkill{} }

func (s *ReminderSkill) Name() string { return "reminder" }

func (s *ReminderSkill) CanHandle(text string) bool {
	return containsAny(text, reminderKeywords)
}

func (s *ReminderSkill) Handle(text string) Result {
	return Result{
		Success:        true,
		Response:       "Напоминание установлено. (В реальной версии работает система напоминаний)",
		Data:           map[string]any{"type": "reminder", "text": text},
		ShouldContinue: true,
	}
}
