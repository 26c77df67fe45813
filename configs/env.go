package configs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// EnvConfig holds the values read straight from the process environment.
type EnvConfig struct {
	ApplicationName string `validate:"required"`
	BotToken        string `validate:"required"`
	Mode            string `validate:"required,oneof=polling webhook"`
	LogLevel        string `validate:"omitempty,oneof=debug info warn error"`
}

// Load reads an optional .env file, then the environment. A missing BOT_TOKEN is an error.
func Load(dotenvFiles ...string) (*EnvConfig, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	env := &EnvConfig{
		ApplicationName: getStringOrDefault(v, "APPLICATION_NAME", "umbrella-bot"),
		BotToken:        v.GetString("BOT_TOKEN"),
		Mode:            getStringOrDefault(v, "BOT_MODE", ModePolling),
		LogLevel:        v.GetString("LOG_LEVEL"),
	}

	if err := validator.New().Struct(env); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return env, nil
}

func getStringOrDefault(v *viper.Viper, key, defaultValue string) string {
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
