package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"umbrella-bot/internal/domain/entity"
	"umbrella-bot/internal/domain/model"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/requestid"
)

var tokyo = &entity.GeoLocation{Latitude: 35.6895, Longitude: 139.69171, DisplayName: "Tokyo"}

func TestReply_GreetingForCommandsAndBlankText(t *testing.T) {
	useCase := new(mockUmbrellaUseCase)
	dispatcher := NewDispatcher(useCase, new(mockTelegramGateway), testCatalog(), time.Second)

	for _, text := range []string{"/start", "/help", "/start@umbrella_bot", "   ", "\n"} {
		reply := dispatcher.Reply(context.Background(), text)
		assert.Contains(t, reply, "Tallinn, London, Tokyo", "text=%q", text)
	}
	useCase.AssertNotCalled(t, "Advise", mock.Anything, mock.Anything)
}

func TestReply_RendersOutcome(t *testing.T) {
	tests := []struct {
		name   string
		advice model.Advice
		want   string
	}{
		{"not found", model.Advice{Outcome: model.OutcomeCityNotFound}, "I can't find this city"},
		{"unavailable", model.Advice{Outcome: model.OutcomeUnavailable, Location: tokyo}, "I couldn't get the weather right now"},
		{"empty forecast", model.Advice{Outcome: model.OutcomeForecastEmpty, Location: tokyo}, "Something went wrong with the forecast"},
		{"rain", model.Advice{Outcome: model.OutcomeNeedsUmbrella, Location: tokyo}, "In Tokyo, take an umbrella!"},
		{"dry", model.Advice{Outcome: model.OutcomeNoUmbrellaNeeded, Location: tokyo}, "No rain expected in Tokyo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := new(mockUmbrellaUseCase)
			useCase.On("Advise", mock.Anything, "Tokyo").Return(tt.advice)

			reply := NewDispatcher(useCase, new(mockTelegramGateway), testCatalog(), time.Second).
				Reply(context.Background(), "  Tokyo  ")

			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestHandleUpdate_SendsReplyToChat(t *testing.T) {
	useCase := new(mockUmbrellaUseCase)
	telegram := new(mockTelegramGateway)

	var adviseCtx context.Context
	useCase.On("Advise", mock.Anything, "Tokyo").
		Run(func(args mock.Arguments) { adviseCtx = args.Get(0).(context.Context) }).
		Return(model.Advice{Outcome: model.OutcomeNeedsUmbrella, Location: tokyo})
	telegram.On("SendMessage", mock.Anything, int64(99), "In Tokyo, take an umbrella!").Return(nil)

	NewDispatcher(useCase, telegram, testCatalog(), time.Second).
		HandleUpdate(context.Background(), textUpdate(1, 99, "Tokyo"))

	telegram.AssertExpectations(t)
	assert.NotEmpty(t, requestid.FromContext(adviseCtx))
}

func TestHandleUpdate_IgnoresUpdatesWithoutUserText(t *testing.T) {
	botUpdate := textUpdate(3, 5, "Tokyo")
	botUpdate.Message.From.IsBot = true

	updates := map[string]external.TelegramUpdate{
		"no message": {UpdateID: 1},
		"empty text": textUpdate(2, 5, ""),
		"from a bot": botUpdate,
	}

	for name, update := range updates {
		t.Run(name, func(t *testing.T) {
			useCase := new(mockUmbrellaUseCase)
			telegram := new(mockTelegramGateway)

			NewDispatcher(useCase, telegram, testCatalog(), time.Second).HandleUpdate(context.Background(), update)

			useCase.AssertNotCalled(t, "Advise", mock.Anything, mock.Anything)
			telegram.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleUpdate_SendFailureIsSwallowed(t *testing.T) {
	telegram := new(mockTelegramGateway)
	telegram.On("SendMessage", mock.Anything, int64(5), mock.Anything).Return(errors.New("chat not found"))

	assert.NotPanics(t, func() {
		NewDispatcher(new(mockUmbrellaUseCase), telegram, testCatalog(), time.Second).
			HandleUpdate(context.Background(), textUpdate(1, 5, "/start"))
	})
	telegram.AssertExpectations(t)
}

func TestHandleUpdate_SendUsesTimeout(t *testing.T) {
	telegram := new(mockTelegramGateway)
	var deadlineSet bool
	telegram.On("SendMessage", mock.Anything, int64(5), mock.Anything).
		Run(func(args mock.Arguments) {
			_, deadlineSet = args.Get(0).(context.Context).Deadline()
		}).
		Return(nil)

	NewDispatcher(new(mockUmbrellaUseCase), telegram, testCatalog(), time.Second).
		HandleUpdate(context.Background(), textUpdate(1, 5, "/help"))

	assert.True(t, deadlineSet)
}
