package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"umbrella-bot/internal/domain/gateway/chat"
	"umbrella-bot/internal/domain/model"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/internal/domain/usecase/umbrella"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/msg"
	"umbrella-bot/pkg/requestid"
)

// UpdateHandler consumes one Telegram update
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update external.TelegramUpdate)
}

// Dispatcher turns inbound text messages into umbrella replies
type Dispatcher struct {
	useCase     umbrella.UseCase
	telegram    chat.TelegramGateway
	messages    *msg.Catalog
	sendTimeout time.Duration
}

func NewDispatcher(useCase umbrella.UseCase, telegram chat.TelegramGateway, messages *msg.Catalog, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		useCase:     useCase,
		telegram:    telegram,
		messages:    messages,
		sendTimeout: sendTimeout,
	}
}

// HandleUpdate answers a text message. Updates without text, or sent by bots, are ignored.
// Send failures are logged and swallowed.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update external.TelegramUpdate) {
	message := update.Message
	if message == nil || message.Text == "" || (message.From != nil && message.From.IsBot) {
		log.Debug("Ignoring update without user text", zap.Int64("update_id", update.UpdateID))
		return
	}

	requestID := requestid.New()
	ctx = requestid.WithRequestID(ctx, requestID)

	reply := d.Reply(ctx, message.Text)

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.telegram.SendMessage(sendCtx, message.Chat.ID, reply); err != nil {
		log.Error("Failed to send reply",
			zap.Int64("update_id", update.UpdateID),
			zap.Int64("chat_id", message.Chat.ID),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

// Reply renders the answer for one inbound text.
func (d *Dispatcher) Reply(ctx context.Context, text string) string {
	city := strings.TrimSpace(text)
	if city == "" || isCommand(city) {
		return d.messages.GetMessage("bot.greeting")
	}

	return d.render(d.useCase.Advise(ctx, city))
}

func (d *Dispatcher) render(advice model.Advice) string {
	switch advice.Outcome {
	case model.OutcomeCityNotFound:
		return d.messages.GetMessage("bot.city-not-found")
	case model.OutcomeUnavailable:
		return d.messages.GetMessage("bot.weather-unavailable")
	case model.OutcomeNeedsUmbrella:
		return d.messages.GetMessage("bot.needs-umbrella", advice.Location.DisplayName)
	case model.OutcomeNoUmbrellaNeeded:
		return d.messages.GetMessage("bot.no-umbrella", advice.Location.DisplayName)
	default:
		return d.messages.GetMessage("bot.forecast-failed")
	}
}

// isCommand reports whether text is a bot command such as /start, /help or /start@umbrella_bot.
func isCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}
