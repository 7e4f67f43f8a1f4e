package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"translation_desk/internal/usecase/interfaces"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const telegramMaxText = 4096

type telegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TelegramNotifier mirrors admin notifications to the operations chats. Messages whose
// recipients are all clients are ignored.
type TelegramNotifier struct {
	sender      telegramSender
	chatIDs     []int64
	adminEmails map[string]bool
}

var _ interfaces.INotifier = (*TelegramNotifier)(nil)

// NewTelegramBot creates the bot client without contacting Telegram.
func NewTelegramBot(token string) (*bot.Bot, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return b, nil
}

func NewTelegramNotifier(sender telegramSender, chatIDs []int64, adminEmails []string) *TelegramNotifier {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &TelegramNotifier{sender: sender, chatIDs: chatIDs, adminEmails: admins}
}

func (n *TelegramNotifier) Send(ctx context.Context, to []string, subject, body string) error {
	if !n.addressesAdmins(to) {
		return nil
	}

	text := truncate(subject+"\n\n"+htmlToText(body), telegramMaxText)
	var errs []error
	for _, chatID := range n.chatIDs {
		_, err := n.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		})
		if err != nil {
			log.Printf("[notify][telegram] send failed chat_id=%d err=%v", chatID, err)
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func (n *TelegramNotifier) addressesAdmins(to []string) bool {
	for _, addr := range to {
		if n.adminEmails[strings.ToLower(strings.TrimSpace(addr))] {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
