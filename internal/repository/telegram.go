package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramRepository delivers one message to the configured chat.
// Splitting oversized messages is the notifier service's job.
type TelegramRepository interface {
	SendMessage(ctx context.Context, text string) error
}

type telegramRepository struct {
	token       string
	chatID      string
	apiEndpoint string

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramRepository creates a Telegram client for the given bot token
// and chat. The underlying bot session is established lazily on the first
// send, so dry runs never touch the Telegram API.
func NewTelegramRepository(token, chatID, apiEndpoint string) TelegramRepository {
	return &telegramRepository{
		token:       token,
		chatID:      chatID,
		apiEndpoint: apiEndpoint,
	}
}

func (t *telegramRepository) api() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(t.token, t.apiEndpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}
	t.bot = bot
	return bot, nil
}

func (t *telegramRepository) SendMessage(ctx context.Context, text string) error {
	bot, err := t.api()
	if err != nil {
		return err
	}

	msg, err := t.messageConfig(text)
	if err != nil {
		return err
	}

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("sending Telegram message: %w", err)
	}
	return nil
}

// messageConfig addresses the message to either a @channel or a numeric
// chat ID and enables HTML markup mode.
func (t *telegramRepository) messageConfig(text string) (tgbotapi.MessageConfig, error) {
	var msg tgbotapi.MessageConfig
	if strings.HasPrefix(t.chatID, "@") {
		msg = tgbotapi.NewMessageToChannel(t.chatID, text)
	} else {
		id, err := strconv.ParseInt(t.chatID, 10, 64)
		if err != nil {
			return msg, fmt.Errorf("invalid Telegram chat ID %q: %w", t.chatID, err)
		}
		msg = tgbotapi.NewMessage(id, text)
	}

	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = false
	return msg, nil
}
