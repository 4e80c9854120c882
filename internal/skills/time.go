package skills

import (
	"fmt"
	"strings"
	"time"
)

var timeKeywords = []string{"время", "который час", "сколько времени", "дата", "сегодня число"}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var ruWeekdays = map[time.Weekday]string{
	time.Monday:    "понедельник",
	time.Tuesday:   "вторник",
	time.Wednesday: "среда",
	time.Thursday:  "четверг",
	time.Friday:    "пятница",
	time.Saturday:  "суббота",
	time.Sunday:    "воскресенье",
}

// TimeSkill answers time and date questions locally. Terminal: the AI
// model is never consulted after it.
type TimeSkill struct {
	now func() time.Time
}

func NewTimeSkill() *TimeSkill {
	return &TimeSkill{now: time.Now}
}

func (s *TimeSkill) Name() string { return "time" }

func (s *TimeSkill) CanHandle(text string) bool {
	return containsAny(text, timeKeywords)
}

func (s *TimeSkill) Handle(text string) Result {
	now := s.now()
	lower := strings.ToLower(text)

	var response string
	switch {
	case strings.Contains(lower, "время"):
		response = fmt.Sprintf("Сейчас %s", now.Format("15:04:05"))
	case strings.Contains(lower, "дата"):
		response = fmt.Sprintf("Сегодня %02d %s %d года, %s",
			now.Day(), ruMonths[now.Month()-1], now.Year(), ruWeekdays[now.Weekday()])
	default:
		response = fmt.Sprintf("Сейчас %s", now.Format("15:04, 02.01.2006"))
	}

	return Result{
		Success:        true,
		Response:       response,
		Data:           map[string]any{"type": "time", "timestamp": now.Format(time.RFC3339)},
		ShouldContinue: false,
	}
}
