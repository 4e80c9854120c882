// Package telegram is an optional thin front-end: it forwards chat
// messages from a single configured user into the assistant's command
// queue and relays replies and error events back to the chat. All
// conversation logic stays in the assistant.
package telegram

import (
	"context"
	"log"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Mas562/voiceai-assistant/internal/assistant"
	"github.com/Mas562/voiceai-assistant/internal/llm"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	assistant   *assistant.Assistant
	allowedUser int64

	// Chat of the most recent allowed message; replies go there.
	chatID atomic.Int64
}

func New(botToken string, allowedUser int64, asst *assistant.Assistant) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:         api,
		assistant:   asst,
		allowedUser: allowedUser,
	}, nil
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleIncomingMessage(update.Message)
		}
	}
}

func (b *Bot) handleIncomingMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if b.allowedUser != 0 && msg.From.ID != b.allowedUser {
		log.Printf("ignoring message from unauthorized user ID: %d (@%s)", msg.From.ID, msg.From.UserName)
		return
	}
	if msg.Text == "" {
		return
	}

	log.Printf("incoming telegram message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)
	b.chatID.Store(msg.Chat.ID)
	b.assistant.SendTextCommand(msg.Text)
}

// NotifyConversation relays assistant replies to the active chat.
// Intended as an OnConversationUpdate callback.
func (b *Bot) NotifyConversation(msg llm.ConversationMessage) {
	if msg.Role != "assistant" {
		return
	}
	b.send(msg.Content)
}

// NotifyError relays error events. Intended as an OnError callback.
func (b *Bot) NotifyError(text string) {
	b.send("⚠️ " + text)
}

func (b *Bot) send(text string) {
	chatID := b.chatID.Load()
	if chatID == 0 {
		return
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("failed to send telegram message: %v", err)
	}
}
