package skills

import (
	"fmt"
	"log"
	"net/url"
	"strings"
)

var (
	webKeywords      = []string{"найди", "поищи", "гугл", "браузер", "ютуб"}
	webStripKeywords = []string{"найди", "поищи", "ищи", "найти", "гугл", "браузер", "ютуб", "youtube"}
)

// WebSkill turns a search command into a browser navigation. The
// residual text after keyword stripping becomes the query.
type WebSkill struct {
	actions Actions
}

func NewWebSkill(actions Actions) *WebSkill {
	return &WebSkill{actions: actions}
}

func (s *WebSkill) Name() string { return "web" }

func (s *WebSkill) CanHandle(text string) bool {
	return containsAny(text, webKeywords)
}

func (s *WebSkill) Handle(text string) Result {
	lower := strings.ToLower(text)
	query := stripKeywords(text, webStripKeywords)

	if query == "" {
		return Result{
			Success:        true,
			Response:       "Что именно вы хотите найти?",
			Data:           map[string]any{"type": "web", "action": "ask_query"},
			ShouldContinue: false,
		}
	}

	var target, action string
	if strings.Contains(lower, "ютуб") || strings.Contains(lower, "youtube") {
		target = "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
		action = "поиск на YouTube"
	} else {
		target = "https://www.google.com/search?q=" + url.QueryEscape(query)
		action = "поиск в Google"
	}

	if err := s.actions.OpenURL(target); err != nil {
		log.Printf("web search failed: %v", err)
		return noMatch()
	}

	return Result{
		Success:        true,
		Response:       fmt.Sprintf("Ищу '%s'... Открываю %s.", query, action),
		Data:           map[string]any{"type": "web", "query": query, "url": target},
		ShouldContinue: true,
	}
}
