package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"umbrella-bot/configs"
	"umbrella-bot/internal/application/bot"
	"umbrella-bot/internal/application/controller"
	"umbrella-bot/internal/application/middleware"
	"umbrella-bot/internal/application/schedule"
	"umbrella-bot/internal/domain/gateway/api"
	"umbrella-bot/internal/domain/gateway/chat"
	"umbrella-bot/internal/domain/usecase/health"
	"umbrella-bot/internal/domain/usecase/umbrella"
	httpclient "umbrella-bot/pkg/http"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/msg"
	"umbrella-bot/pkg/redis"
	"umbrella-bot/pkg/resource"
)

const (
	// Coordinates used by the forecast health probe (Tallinn).
	probeLatitude  = 59.437
	probeLongitude = 24.7535

	shutdownTimeout = 10 * time.Second
)

// application is the explicitly wired object graph of the bot
type application struct {
	env        *configs.EnvConfig
	properties *resource.Properties
	messages   *msg.Catalog

	echo        *echo.Echo
	telegram    chat.TelegramGateway
	dispatcher  *bot.Dispatcher
	poller      *bot.Poller
	scheduler   *schedule.HealthScheduler
	redisClient *redis.Client
}

func newApplication(env *configs.EnvConfig, properties *resource.Properties, messages *msg.Catalog) (*application, error) {
	app := &application{env: env, properties: properties, messages: messages}

	openMeteoTimeout := properties.GetDurationOrDefault("app.open-meteo.timeout", 10*time.Second)
	geocodingGateway := api.NewGeocodingGateway(
		properties.GetString("app.open-meteo.geocoding-url"),
		properties.GetStringOrDefault("app.open-meteo.language", "en"),
		openMeteoTimeout,
		httpclient.ClientOptions{
			ReadTimeout: openMeteoTimeout,
			BreakerName: "open-meteo-geocoding",
			Logger:      log.HTTPLogger{Upstream: "geocoding"},
		},
	)
	forecastGateway := api.NewForecastGateway(
		properties.GetString("app.open-meteo.forecast-url"),
		openMeteoTimeout,
		httpclient.ClientOptions{
			ReadTimeout: openMeteoTimeout,
			BreakerName: "open-meteo-forecast",
			Logger:      log.HTTPLogger{Upstream: "forecast"},
		},
	)

	pollTimeout := properties.GetDurationOrDefault("app.telegram.poll-timeout", 30*time.Second)
	app.telegram = chat.NewTelegramGateway(
		properties.GetStringOrDefault("app.telegram.api-url", "https://api.telegram.org"),
		env.BotToken,
		httpclient.ClientOptions{
			// Long polling holds the request open for pollTimeout.
			ReadTimeout: pollTimeout + 10*time.Second,
			Logger:      log.HTTPLogger{Upstream: "telegram"},
		},
	)

	umbrellaUseCase := umbrella.NewUmbrellaUseCase(
		properties.GetIntOrDefault("umbrella.hours-ahead", umbrella.DefaultHoursAhead),
		geocodingGateway,
		forecastGateway,
	)
	app.dispatcher = bot.NewDispatcher(umbrellaUseCase, app.telegram, messages, openMeteoTimeout)

	checks := []health.Check{
		health.GeocodingCheck(geocodingGateway, properties.GetStringOrDefault("app.health.probe-city", "Tallinn")),
		health.ForecastCheck(forecastGateway, probeLatitude, probeLongitude),
		health.TelegramCheck(app.telegram),
	}

	pollerOptions := bot.PollerOptions{
		Timeout:    pollTimeout,
		ErrorDelay: properties.GetDurationOrDefault("app.telegram.poll-error-delay", 3*time.Second),
		Workers:    properties.GetIntOrDefault("app.telegram.workers", 16),
	}

	if properties.GetBool("app.redis.enabled") {
		redisClient, err := redis.NewClient(redis.NewRedisConfig().
			WithHost(properties.GetString("app.redis.host")).
			WithPort(properties.GetIntOrDefault("app.redis.port", 6379)).
			WithPassword(properties.GetString("app.redis.password")).
			WithDatabase(properties.GetInt("app.redis.database")))
		if err != nil {
			return nil, err
		}
		app.redisClient = redisClient
		checks = append(checks, health.PingCheck("redis", redisClient))

		pollerOptions.Locker = redis.NewLock(redisClient, "telegram_poller", redis.NewLockOptions().
			WithTTL(properties.GetDurationOrDefault("app.redis.poller-lock-ttl", 30*time.Second)).
			WithRefreshInterval(properties.GetDurationOrDefault("app.redis.poller-lock-refresh", 10*time.Second)).
			WithRetryDelay(5*time.Second).
			WithMaxRetries(-1).
			WithLockNamespace(env.ApplicationName))
	}

	healthUseCase := health.NewHealthUseCase(openMeteoTimeout, checks...)
	healthScheduler, err := schedule.NewHealthScheduler(healthUseCase,
		properties.GetStringOrDefault("app.health.probe-cron", "*/5 * * * *"))
	if err != nil {
		return nil, err
	}
	app.scheduler = healthScheduler

	app.echo = echo.New()
	app.echo.HideBanner = true
	middleware.SetupRequestLogger(app.echo, messages)
	group := app.echo.Group(properties.GetStringOrDefault("app.server.context-path", "/umbrella-bot"))
	controller.NewHealthController(group, healthUseCase).InitHealthRoutes()

	switch env.Mode {
	case configs.ModeWebhook:
		if properties.GetString("app.telegram.webhook-url") == "" {
			return nil, errors.New("TELEGRAM_WEBHOOK_URL is required in webhook mode")
		}
		controller.NewWebhookController(group, app.dispatcher, properties.GetString("app.telegram.webhook-secret")).InitWebhookRoutes()
	default:
		app.poller = bot.NewPoller(app.telegram, app.dispatcher, pollerOptions)
	}

	return app, nil
}

// run serves until ctx is cancelled or a component fails, then shuts everything down
func (app *application) run(ctx context.Context) error {
	if err := app.scheduler.InitHealthScheduleTasks(ctx); err != nil {
		return err
	}
	defer app.scheduler.Stop()

	if app.redisClient != nil {
		defer func() {
			if err := app.redisClient.Close(); err != nil {
				log.Warn("Failed to close redis client", zap.Error(err))
			}
		}()
	}

	group, groupCtx := errgroup.WithContext(ctx)

	address := ":" + app.properties.GetStringOrDefault("app.server.port", "8080")
	group.Go(func() error {
		if err := app.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownTimeout)
		defer cancel()
		return app.echo.Shutdown(shutdownCtx)
	})

	group.Go(func() error {
		return app.runBot(groupCtx)
	})

	log.Info(app.messages.GetMessage("app.started", app.env.Mode))
	return group.Wait()
}

func (app *application) runBot(ctx context.Context) error {
	if app.poller != nil {
		return app.poller.Run(ctx)
	}

	registerCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	webhookURL := app.properties.GetString("app.telegram.webhook-url")
	if err := app.telegram.SetWebhook(registerCtx, webhookURL, app.properties.GetString("app.telegram.webhook-secret")); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	log.Info("Webhook registered", zap.String("url", webhookURL))

	<-ctx.Done()
	return nil
}
