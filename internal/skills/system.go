package skills

import (
	"fmt"
	"log"
	"strings"
)

var systemKeywords = []string{"открой", "запусти", "выключи", "перезагрузи", "закрой"}

// SystemSkill maps keyword combinations to local application launches
// through the Actions collaborator.
type SystemSkill struct {
	actions Actions
}

func NewSystemSkill(actions Actions) *SystemSkill {
	return &SystemSkill{actions: actions}
}

func (s *SystemSkill) Name() string { return "system" }

func (s *SystemSkill) CanHandle(text string) bool {
	return containsAny(text, systemKeywords)
}

func (s *SystemSkill) Handle(text string) Result {
	lower := strings.ToLower(text)

	var action string
	var err error
	switch {
	case strings.Contains(lower, "браузер") || strings.Contains(lower, "интернет"):
		err = s.actions.OpenURL("https://www.google.com")
		action = "открыл браузер"
	case strings.Contains(lower, "калькулятор"):
		err = s.actions.OpenApp(AppCalculator)
		action = "запустил калькулятор"
	case strings.Contains(lower, "блокнот") || strings.Contains(lower, "notepad"):
		err = s.actions.OpenApp(AppNotepad)
		action = "открыл блокнот"
	case strings.Contains(lower, "папка") && strings.Contains(lower, "проект"):
		err = s.actions.OpenApp(AppProjectFolder)
		action = "открыл папку проекта"
	case strings.Contains(lower, "выключи") && strings.Contains(lower, "компьютер"):
		// Never executed, only acknowledged.
		return Result{
			Success:        true,
			Response:       "Выключение компьютера требует подтверждения вручную.",
			Data:           map[string]any{"type": "system", "action": "shutdown_refused"},
			ShouldContinue: true,
		}
	default:
		return noMatch()
	}

	if err != nil {
		log.Printf("system action failed: %v", err)
		return noMatch()
	}

	return Result{
		Success:        true,
		Response:       fmt.Sprintf("Я %s.", action),
		Data:           map[string]any{"type": "system", "action": action},
		ShouldContinue: true,
	}
}
