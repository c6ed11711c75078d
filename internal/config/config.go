package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// TCPAddr is the main listening endpoint for the line protocol.
	TCPAddr string `env:"TRIVIA_TCP_ADDR" envDefault:":5555"`

	// HTTPAddr serves the websocket gateway and the read-only directory
	// endpoints. Empty disables the HTTP listener.
	HTTPAddr string `env:"TRIVIA_HTTP_ADDR" envDefault:":8080"`

	// QuestionsFile points to a JSON question bank. Empty selects the
	// embedded default bank.
	QuestionsFile string `env:"TRIVIA_QUESTIONS_FILE"`

	// ScoreboardFile is the append-only name,score record of finished games.
	ScoreboardFile string `env:"TRIVIA_SCOREBOARD_FILE" envDefault:"scoreboard.txt"`

	QuestionsPerGame int `env:"TRIVIA_QUESTIONS_PER_GAME" envDefault:"5"`

	// AnswerTimeout bounds the wait for an answer while a question is
	// pending; expiry forfeits the game. Zero disables the timeout.
	AnswerTimeout time.Duration `env:"TRIVIA_ANSWER_TIMEOUT" envDefault:"60s"`

	// FrameReadLimit caps the size of one inbound protocol frame in bytes.
	FrameReadLimit int64 `env:"TRIVIA_FRAME_READ_LIMIT" envDefault:"4096"`

	// ConnRateLimit caps accepted connections per ConnRateWindow.
	// Zero disables admission control.
	ConnRateLimit  int           `env:"TRIVIA_CONN_RATE_LIMIT" envDefault:"0"`
	ConnRateWindow time.Duration `env:"TRIVIA_CONN_RATE_WINDOW" envDefault:"1m"`
}

// Load reads configuration from the environment, optionally seeded from a
// dotenv file. A missing default .env is not an error; an explicitly named
// file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.QuestionsPerGame <= 0 {
		return Config{}, fmt.Errorf("questions per game must be positive, got %d", cfg.QuestionsPerGame)
	}
	return cfg, nil
}
