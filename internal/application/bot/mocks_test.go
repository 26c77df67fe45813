package bot

import (
	"context"

	"github.com/stretchr/testify/mock"

	"umbrella-bot/internal/domain/model"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/msg"
)

type mockTelegramGateway struct {
	mock.Mock
}

func (m *mockTelegramGateway) GetMe(ctx context.Context) (*external.TelegramUser, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*external.TelegramUser)
	return user, args.Error(1)
}

func (m *mockTelegramGateway) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]external.TelegramUpdate, error) {
	args := m.Called(ctx, offset, timeoutSeconds)
	updates, _ := args.Get(0).([]external.TelegramUpdate)
	return updates, args.Error(1)
}

func (m *mockTelegramGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	return m.Called(ctx, chatID, text).Error(0)
}

func (m *mockTelegramGateway) SetWebhook(ctx context.Context, url string, secretToken string) error {
	return m.Called(ctx, url, secretToken).Error(0)
}

func (m *mockTelegramGateway) DeleteWebhook(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockUmbrellaUseCase struct {
	mock.Mock
}

func (m *mockUmbrellaUseCase) Advise(ctx context.Context, city string) model.Advice {
	return m.Called(ctx, city).Get(0).(model.Advice)
}

func testCatalog() *msg.Catalog {
	return msg.NewCatalog(map[string]string{
		"bot.greeting":            "Hi! Send me a city. Examples: Tallinn, London, Tokyo",
		"bot.city-not-found":      "I can't find this city",
		"bot.weather-unavailable": "I couldn't get the weather right now",
		"bot.forecast-failed":     "Something went wrong with the forecast",
		"bot.needs-umbrella":      "In {0}, take an umbrella!",
		"bot.no-umbrella":         "No rain expected in {0}",
	})
}

func textUpdate(id int64, chatID int64, text string) external.TelegramUpdate {
	return external.TelegramUpdate{
		UpdateID: id,
		Message: &external.TelegramMessage{
			MessageID: id,
			From:      &external.TelegramUser{ID: chatID, FirstName: "Ann"},
			Chat:      external.TelegramChat{ID: chatID, Type: "private"},
			Text:      text,
		},
	}
}
