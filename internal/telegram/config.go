package telegram

import (
	"errors"
	"os"
	"strings"
)

// ErrNoToken is returned when TELEGRAM_BOT_TOKEN is not set.
var ErrNoToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config holds bot settings.
type Config struct {
	Token string
	Debug bool
	// PollTimeout is the long-poll timeout in seconds.
	PollTimeout int
}

// ConfigFromEnv reads TELEGRAM_BOT_TOKEN and TUTOR_TELEGRAM_DEBUG.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Token:       strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		Debug:       os.Getenv("TUTOR_TELEGRAM_DEBUG") == "true",
		PollTimeout: 60,
	}
	if cfg.Token == "" {
		return Config{}, ErrNoToken
	}
	return cfg, nil
}
