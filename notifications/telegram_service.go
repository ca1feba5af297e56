// Package notifications is the reminder delivery port. The concrete channel
// is a Telegram bot; the reminder job and handlers only see the Sender
// interface so delivery can be faked in tests.
package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// Sender delivers a formatted message to a subject's external messaging
// identity.
type Sender interface {
	Send(ctx context.Context, chatID, text string) error
}

// TelegramService sends messages through the Telegram Bot API.
type TelegramService struct {
	bot     *bot.Bot
	timeout time.Duration
}

func NewTelegramService(token string) (*TelegramService, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}
	log.Println("✅ Telegram bot initialized")
	return &TelegramService{bot: b, timeout: 10 * time.Second}, nil
}

func (s *TelegramService) Send(ctx context.Context, chatID, text string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("telegram send to %s: %w", chatID, err)
	}
	return nil
}
