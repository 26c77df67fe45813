package log

import (
	"go.uber.org/zap"
)

// HTTPLogger writes outbound HTTP calls at debug level and failures at warn level.
// Bodies are not logged.
type HTTPLogger struct {
	Upstream string
}

func (l HTTPLogger) LogRequest(method, url string, _ map[string]string, _ string) {
	Debug("outbound request",
		zap.String("upstream", l.Upstream),
		zap.String("method", method),
		zap.String("url", url),
	)
}

func (l HTTPLogger) LogResponseSuccess(method, url string, _ map[string]string, _ string, httpStatus int, _ string, latency int64) {
	Debug("outbound response",
		zap.String("upstream", l.Upstream),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
	)
}

func (l HTTPLogger) LogResponseError(method, url string, _ map[string]string, _ string, httpStatus int, _ string, latency int64, err error) {
	Warn("outbound request failed",
		zap.String("upstream", l.Upstream),
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.Error(err),
	)
}
