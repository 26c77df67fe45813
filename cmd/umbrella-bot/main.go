package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"umbrella-bot/configs"
	"umbrella-bot/pkg/log"
	"umbrella-bot/pkg/msg"
	"umbrella-bot/pkg/resource"
)

func main() {
	env, err := configs.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	log.Configure(env.ApplicationName, env.LogLevel)
	defer log.Sync()

	properties, err := resource.Load(resource.PropertiesPath())
	if err != nil {
		log.Fatal("Failed to load properties", zap.Error(err))
	}
	messages, err := msg.Load(msg.MessagesPath())
	if err != nil {
		log.Fatal("Failed to load messages", zap.Error(err))
	}

	log.Info(messages.GetMessage("app.start"))

	app, err := newApplication(env, properties, messages)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx); err != nil {
		log.Error("Application stopped with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Info(messages.GetMessage("app.stopped"))
}
