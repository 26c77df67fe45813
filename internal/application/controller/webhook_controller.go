package controller

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"umbrella-bot/internal/application/bot"
	"umbrella-bot/internal/domain/model/external"
	"umbrella-bot/pkg/log"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

type WebhookController struct {
	api         *echo.Group
	handler     bot.UpdateHandler
	secretToken string
}

func NewWebhookController(api *echo.Group, handler bot.UpdateHandler, secretToken string) *WebhookController {
	return &WebhookController{api: api, handler: handler, secretToken: secretToken}
}

// InitWebhookRoutes initializes the Telegram webhook route
func (controller *WebhookController) InitWebhookRoutes() {
	controller.api.POST("/telegram/webhook", controller.ReceiveUpdate)
}

// ReceiveUpdate handles one pushed update synchronously and acknowledges it.
// Malformed bodies are acknowledged too so Telegram does not redeliver them.
func (controller *WebhookController) ReceiveUpdate(c echo.Context) error {
	if controller.secretToken != "" {
		received := c.Request().Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(received), []byte(controller.secretToken)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid secret token"})
		}
	}

	var update external.TelegramUpdate
	if err := c.Bind(&update); err != nil {
		log.Warn("Discarding undecodable webhook update", zap.Error(err))
		return c.NoContent(http.StatusOK)
	}

	controller.handler.HandleUpdate(context.WithoutCancel(c.Request().Context()), update)
	return c.NoContent(http.StatusOK)
}
