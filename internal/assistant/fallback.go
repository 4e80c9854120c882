package assistant

import (
	"fmt"
	"math/rand"
	"strings"
)

// fallbackResponse produces a locally computed reply when the AI model
// is unavailable and no skill matched, keyed by coarse text categories.
func (a *Assistant) fallbackResponse(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, []string{"привет", "здравствуй", "хай", "hello"}):
		return pick(a.rand,
			fmt.Sprintf("Привет, %s!", a.context.UserName()),
			"Здравствуйте! Чем могу помочь?",
			"Приветствую! Готов помочь вам!",
		)
	case containsAny(lower, []string{"как дела", "как ты", "как жизнь"}):
		return pick(a.rand,
			"У меня всё отлично, спасибо! А у вас?",
			"Прекрасно! Всегда рад помочь.",
			"Всё хорошо, готов к работе!",
		)
	case containsAny(lower, []string{"спасибо", "благодарю"}):
		return pick(a.rand,
			"Всегда пожалуйста!",
			"Рад был помочь!",
			"Обращайтесь ещё!",
		)
	case containsAny(lower, []string{"пока", "до свидания", "прощай"}):
		return pick(a.rand,
			"До свидания! Возвращайтесь.",
			"Пока! Буду рад помочь снова.",
			"Всего хорошего!",
		)
	case strings.Contains(lower, "что ты умеешь") || strings.Contains(lower, "помощь"):
		return "Я могу:\n" +
			"• Отвечать на вопросы о времени и дате\n" +
			"• Рассказывать о погоде\n" +
			"• Открывать браузер и программы\n" +
			"• Искать в интернете\n" +
			"• Выполнять вычисления\n" +
			"• Рассказывать шутки\n" +
			"• И многое другое!\n\n" +
			"Для полного функционала с AI установите API ключ OpenRouter."
	default:
		return pick(a.rand,
			"Извините, я не совсем понял. Можете переформулировать?",
			"Пока я учусь понимать такие запросы. Попробуйте другую формулировку.",
			"Интересный вопрос! К сожалению, мои AI возможности временно ограничены.",
			"Для ответа на этот вопрос мне нужен доступ к AI модели. Установите API ключ OpenRouter.",
		)
	}
}

func pick(r *rand.Rand, options ...string) string {
	return options[r.Intn(len(options))]
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
