package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Mas562/voiceai-assistant/internal/assistant"
	"github.com/Mas562/voiceai-assistant/internal/config"
	"github.com/Mas562/voiceai-assistant/internal/history"
	"github.com/Mas562/voiceai-assistant/internal/llm"
	"github.com/Mas562/voiceai-assistant/internal/platform"
	"github.com/Mas562/voiceai-assistant/internal/scheduler"
	"github.com/Mas562/voiceai-assistant/internal/skills"
	"github.com/Mas562/voiceai-assistant/internal/speech"
	"github.com/Mas562/voiceai-assistant/internal/telegram"
)

// consoleSynth stands in for a real text-to-speech engine.
type consoleSynth struct{}

func (consoleSynth) Speak(text string) error {
	fmt.Printf("🔊 %s\n", text)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.Load(os.Getenv("SETTINGS_PATH"))

	model := llm.NewClient(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.Model)
	model.SetSampling(cfg.Model.MaxTokens, cfg.Model.Temperature)

	hist := history.NewManager(cfg.Assistant.MaxHistory)
	sessCtx := assistant.NewContext(cfg.User.Name, cfg.User.Location, cfg.User.Interests)

	weather := skills.NewWeatherSkill(cfg.Skills.Weather.APIKey, "", func() string {
		if loc := sessCtx.Location(); loc != "" {
			return loc
		}
		return cfg.Skills.Weather.DefaultCity
	})
	registry := skills.DefaultRegistry(weather, platform.New(), hist.Clear)

	asst := assistant.New(model, registry, hist, sessCtx)

	speaker := speech.NewSpeaker(consoleSynth{})
	defer speaker.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var bot *telegram.Bot
	if cfg.Telegram.BotToken != "" {
		var err error
		bot, err = telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AllowedUser, asst)
		if err != nil {
			log.Printf("failed to create telegram bot: %v", err)
			bot = nil
		}
	}

	asst.OnStateChange = func(old, next assistant.State) {
		log.Printf("state: %s -> %s", old, next)
	}
	asst.OnConversationUpdate = func(msg llm.ConversationMessage) {
		switch msg.Role {
		case "user":
			fmt.Printf("Вы: %s\n", msg.Content)
		case "assistant":
			fmt.Printf("%s: %s\n", cfg.Assistant.Name, msg.Content)
			speaker.Say(msg.Content)
		}
		if bot != nil {
			bot.NotifyConversation(msg)
		}
	}
	asst.OnError = func(text string) {
		fmt.Printf("⚠️ %s\n", text)
		if bot != nil {
			bot.NotifyError(text)
		}
	}
	asst.OnAIResponse = func(meta llm.Metadata) {
		log.Printf("reply [source=%s, model=%s, tokens=%d, cached=%v]",
			meta.Source, meta.Model, meta.Tokens.Total, meta.Cached)
	}

	asst.Start()
	defer asst.Stop()

	sched := scheduler.New(cfg.Report.CronSpec)
	sched.SetReportFunction(func() {
		st := asst.Stats()
		log.Printf("usage: messages=%d, requests=%d, tokens=%d, errors=%d, ai_available=%v",
			st.ConversationMessages, st.Model.Requests, st.Model.TokensUsed, st.Model.Errors, st.ModelAvailable)
	})
	if err := sched.Start(); err != nil {
		log.Printf("failed to start stats reporting: %v", err)
	}
	defer sched.Stop()

	if bot != nil {
		go bot.Start(ctx)
	}

	fmt.Printf("%s слушает. Введите команду (или \"выход\"):\n", cfg.Assistant.Name)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nДо свидания!")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if text == "выход" || text == "exit" || text == "quit" {
				fmt.Println("До свидания!")
				return
			}
			asst.SendTextCommand(text)
		}
	}
}
