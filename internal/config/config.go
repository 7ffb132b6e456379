package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LexiconPath      string `env:"METERMETER_LEXICON_PATH"`
	ExtraLexiconPath string `env:"METERMETER_EXTRA_LEXICON_PATH"`
	LexiconDB        string `env:"METERMETER_LEXICON_DB"`
	PriorsPath       string `env:"METERMETER_PRIORS_PATH"`
	CostsPath        string `env:"METERMETER_COSTS_PATH"`
	WatchLexicon     bool   `env:"WATCH_LEXICON" envDefault:"false"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	BatchWorkers int    `env:"BATCH_WORKERS" envDefault:"4"`
	MaxSyllables int    `env:"METERMETER_MAX_SYLLABLES" envDefault:"64"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile          string
	HTTPAddr         string
	LogLevel         string
	LexiconPath      string
	ExtraLexiconPath string
	LexiconDB        string
	PriorsPath       string
	CostsPath        string
	BatchWorkers     int
	WatchLexicon     bool
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.LexiconPath != "" {
		cfg.LexiconPath = overrides.LexiconPath
	}
	if overrides.ExtraLexiconPath != "" {
		cfg.ExtraLexiconPath = overrides.ExtraLexiconPath
	}
	if overrides.LexiconDB != "" {
		cfg.LexiconDB = overrides.LexiconDB
	}
	if overrides.PriorsPath != "" {
		cfg.PriorsPath = overrides.PriorsPath
	}
	if overrides.CostsPath != "" {
		cfg.CostsPath = overrides.CostsPath
	}
	if overrides.BatchWorkers > 0 {
		cfg.BatchWorkers = overrides.BatchWorkers
	}
	if overrides.WatchLexicon {
		cfg.WatchLexicon = true
	}

	return cfg, nil
}
