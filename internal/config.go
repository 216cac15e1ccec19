package internal

import (
	"fmt"
	"keyroom/errors"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type Config struct {
	BadgerFilepath  string        `env:"BADGER_FILEPATH,default=./data/keyroom"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	BotMinDelay     time.Duration `env:"BOT_MIN_DELAY,default=1s"`
	BotMaxDelay     time.Duration `env:"BOT_MAX_DELAY,default=2s"`
	BotReplyLimit   *int          `env:"BOT_REPLY_LIMIT"`
	BotBufferSize   int           `env:"BOT_BUFFER_SIZE,default=16"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	PatternsFile    string        `env:"PATTERNS_FILE"`
	LimitMessages   *int          `env:"LIMIT_MESSAGES"`
	Colours         bool          `env:"COLOURS,default=true"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.BotMinDelay < 0 || c.BotMaxDelay < 0 {
		return fmt.Errorf("%w: bot delays must not be negative", errors.ErrInvalidArgument)
	}
	if c.BotMinDelay > c.BotMaxDelay {
		return fmt.Errorf("%w: %s > %s", errors.ErrInvalidDelay, c.BotMinDelay, c.BotMaxDelay)
	}
	if c.BotBufferSize < 0 {
		return fmt.Errorf("%w: BOT_BUFFER_SIZE must not be negative", errors.ErrInvalidArgument)
	}
	if c.BotReplyLimit != nil && *c.BotReplyLimit < 0 {
		return fmt.Errorf("%w: BOT_REPLY_LIMIT must not be negative", errors.ErrInvalidArgument)
	}
	if c.LimitMessages != nil && *c.LimitMessages <= 0 {
		return fmt.Errorf("%w: LIMIT_MESSAGES must be positive", errors.ErrInvalidArgument)
	}
	return nil
}
