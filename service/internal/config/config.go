// Package config loads match and simulator settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	engine "github.com/jason-s-yu/buraco/engine"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every tunable read from the environment.
type Config struct {
	WinningScore       int `env:"BURACO_WINNING_SCORE" envDefault:"3000"`
	LateEntryThreshold int `env:"BURACO_LATE_ENTRY_THRESHOLD" envDefault:"1500"`
	LateMinPoints      int `env:"BURACO_LATE_MIN_POINTS" envDefault:"100"`
	BaterBonus         int `env:"BURACO_BATER_BONUS" envDefault:"100"`
	NoMortoPenalty     int `env:"BURACO_NO_MORTO_PENALTY" envDefault:"100"`

	LogLevel string `env:"BURACO_LOG_LEVEL" envDefault:"info"`

	// Simulator settings. A zero seed picks one at random.
	Seed     uint64 `env:"BURACO_SEED" envDefault:"0"`
	Matches  int    `env:"BURACO_MATCHES" envDefault:"1"`
	Players  int    `env:"BURACO_PLAYERS" envDefault:"4"`
	MaxTurns int    `env:"BURACO_MAX_TURNS" envDefault:"5000"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Load reads the given dotenv files, if present, then parses the environment.
// Variables already set in the environment win over dotenv values.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.WinningScore <= 0:
		return fmt.Errorf("%w: winning score must be positive, got %d", ErrInvalid, c.WinningScore)
	case c.LateEntryThreshold < 0 || c.LateMinPoints < 0:
		return fmt.Errorf("%w: late entry settings must not be negative", ErrInvalid)
	case c.BaterBonus < 0 || c.NoMortoPenalty < 0:
		return fmt.Errorf("%w: bonus and penalty must not be negative", ErrInvalid)
	case c.Players != 2 && c.Players != 4:
		return fmt.Errorf("%w: players must be 2 or 4, got %d", ErrInvalid, c.Players)
	case c.Matches < 1:
		return fmt.Errorf("%w: matches must be at least 1, got %d", ErrInvalid, c.Matches)
	case c.MaxTurns < 1:
		return fmt.Errorf("%w: max turns must be at least 1, got %d", ErrInvalid, c.MaxTurns)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Rules returns the match rules described by c.
func (c Config) Rules() engine.Rules {
	r := engine.DefaultRules()
	r.WinningScore = c.WinningScore
	r.LateEntryThreshold = c.LateEntryThreshold
	r.LateEntryMinPoints = c.LateMinPoints
	r.BaterBonus = c.BaterBonus
	r.NoMortoPenalty = c.NoMortoPenalty
	return r
}

// Logger returns a logrus logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
