package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/msg"
)

func TestSetupRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log.Use(zap.New(core))
	t.Cleanup(func() { log.Configure("", "") })

	e := echo.New()
	SetupRequestLogger(e, msg.NewCatalog(map[string]string{
		"app.req-end":  "{0} {1} -> {2}",
		"app.req-fail": "{0} {1} -> {2} failed: {5}",
	}))
	e.GET("/umbrella-bot/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/umbrella-bot/telegram/webhook", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/umbrella-bot/health", nil),
		httptest.NewRequest(http.MethodPost, "/umbrella-bot/telegram/webhook", nil),
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	}

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "POST /umbrella-bot/telegram/webhook -> 200", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}
