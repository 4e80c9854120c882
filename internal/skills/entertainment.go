package skills

import (
	"log"
	"math/rand"
	"strings"
)

var entertainmentKeywords = []string{"шутка", "пошути", "анекдот", "музыка", "фильм"}

var jokes = []string{
	"Почему программисты не любят природу? В ней слишком много багов!",
	"Что сказал один бит другому? Давай встретимся на байтовой вечеринке!",
	"Почему Python не идет в спортзал? Он боится синтаксических ошибок!",
	"Какой у программиста любимый напиток? Java!",
	"Почему компьютер так холоден? Потому что у него Windows всегда открыты!",
}

// EntertainmentSkill tells a joke or opens a music/movie site.
type EntertainmentSkill struct {
	actions Actions
	pick    func(n int) int
}

func NewEntertainmentSkill(actions Actions) *EntertainmentSkill {
	return &EntertainmentSkill{actions: actions, pick: rand.Intn}
}

func (s *EntertainmentSkill) Name() string { return "entertainment" }

func (s *EntertainmentSkill) CanHandle(text string) bool {
	return containsAny(text, entertainmentKeywords)
}

func (s *EntertainmentSkill) Handle(text string) Result {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "шутка") || strings.Contains(lower, "пошути") || strings.Contains(lower, "анекдот"):
		return Result{
			Success:        true,
			Response:       jokes[s.pick(len(jokes))],
			Data:           map[string]any{"type": "entertainment", "subtype": "joke"},
			ShouldContinue: true,
		}
	case strings.Contains(lower, "музыка"):
		if err := s.actions.OpenURL("https://www.youtube.com"); err != nil {
			log.Printf("open music site failed: %v", err)
			return noMatch()
		}
		return Result{
			Success:        true,
			Response:       "Открываю YouTube, выберите музыку по вкусу!",
			Data:           map[string]any{"type": "entertainment", "subtype": "music"},
			ShouldContinue: true,
		}
	case strings.Contains(lower, "фильм"):
		if err := s.actions.OpenURL("https://www.kinopoisk.ru"); err != nil {
			log.Printf("open movie site failed: %v", err)
			return noMatch()
		}
		return Result{
			Success:        true,
			Response:       "Открываю Кинопоиск, хорошего просмотра!",
			Data:           map[string]any{"type": "entertainment", "subtype": "movie"},
			ShouldContinue: true,
		}
	default:
		return noMatch()
	}
}
