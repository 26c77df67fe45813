package chat

import (
	"context"

	"umbrella-bot/internal/domain/model/external"
)

// TelegramGateway defines the Telegram Bot API calls the bot needs
type TelegramGateway interface {
	// GetMe returns the bot's own user, useful as a credentials probe
	GetMe(ctx context.Context) (*external.TelegramUser, error)

	// GetUpdates long-polls for updates with update_id >= offset
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]external.TelegramUpdate, error)

	// SendMessage sends a plain text message to a chat
	SendMessage(ctx context.Context, chatID int64, text string) error

	// SetWebhook registers the URL Telegram pushes updates to
	SetWebhook(ctx context.Context, url string, secretToken string) error

	// DeleteWebhook removes the webhook so getUpdates can be used
	DeleteWebhook(ctx context.Context) error
}
