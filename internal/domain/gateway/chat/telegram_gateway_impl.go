package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/http"
)

var allowedUpdates = []string{"message"}

// APIError is a Bot API call answered with ok=false
type APIError struct {
	Method      string
	ErrorCode   int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s failed (%d): %s", e.Method, e.ErrorCode, e.Description)
}

// telegramGatewayImpl implements the TelegramGateway interface
type telegramGatewayImpl struct {
	httpClient *http.Client
}

// NewTelegramGateway creates a TelegramGateway for the given API base URL and bot token
func NewTelegramGateway(apiURL string, token string, clientOptions http.ClientOptions) TelegramGateway {
	return &telegramGatewayImpl{
		httpClient: http.NewHttpClient(apiURL+"/bot"+token, clientOptions),
	}
}

// GetMe returns the bot user
func (t *telegramGatewayImpl) GetMe(ctx context.Context) (*external.TelegramUser, error) {
	var user external.TelegramUser
	if err := t.call(ctx, "getMe", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUpdates long-polls for new updates
func (t *telegramGatewayImpl) GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]external.TelegramUpdate, error) {
	request := external.GetUpdatesRequest{
		Offset:         offset,
		Timeout:        timeoutSeconds,
		AllowedUpdates: allowedUpdates,
	}

	var updates []external.TelegramUpdate
	if err := t.call(ctx, "getUpdates", request, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends text to chatID
func (t *telegramGatewayImpl) SendMessage(ctx context.Context, chatID int64, text string) error {
	return t.call(ctx, "sendMessage", external.SendMessageRequest{ChatID: chatID, Text: text}, nil)
}

// SetWebhook registers the webhook URL
func (t *telegramGatewayImpl) SetWebhook(ctx context.Context, url string, secretToken string) error {
	request := external.SetWebhookRequest{
		URL:            url,
		SecretToken:    secretToken,
		AllowedUpdates: allowedUpdates,
	}
	return t.call(ctx, "setWebhook", request, nil)
}

// DeleteWebhook removes any registered webhook
func (t *telegramGatewayImpl) DeleteWebhook(ctx context.Context) error {
	return t.call(ctx, "deleteWebhook", map[string]bool{"drop_pending_updates": false}, nil)
}

// call posts body to a Bot API method and decodes the envelope's result into result
func (t *telegramGatewayImpl) call(ctx context.Context, method string, body any, result any) error {
	request := t.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.POST).
		WithPath("/" + method).
		WithSuccessResp(&external.TelegramResponse{}).
		WithErrorResp(&external.TelegramResponse{})
	if body != nil {
		request = request.WithBody(body)
	}

	successResp, errResp, _, err := request.Execute()
	if err != nil {
		if errResp != nil {
			return toAPIError(method, errResp.(*external.TelegramResponse))
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}

	envelope := successResp.(*external.TelegramResponse)
	if !envelope.Ok {
		return toAPIError(method, envelope)
	}
	if result == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("telegram %s: failed to decode result: %w", method, err)
	}
	return nil
}

func toAPIError(method string, envelope *external.TelegramResponse) error {
	apiErr := &APIError{
		Method:      method,
		ErrorCode:   envelope.ErrorCode,
		Description: envelope.Description,
	}
	if envelope.Parameters != nil {
		apiErr.RetryAfter = envelope.Parameters.RetryAfter
	}
	return apiErr
}

// IsConflict reports whether err is Telegram's 409, returned when another consumer
// polls with the same token or a webhook is still set.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == 409
}
