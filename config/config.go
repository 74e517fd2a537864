package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env        string `env:"ENVIRONMENT"`
	ServerPort int    `env:"SERVER_PORT" envDefault:"8080"`

	FootballAPIKey string `env:"FOOTBALL_API_KEY"`
	TeamID         int    `env:"TEAM_ID" envDefault:"332"`
	CompetitionID  int    `env:"COMPETITION_ID" envDefault:"2016"`

	BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID string `env:"ADMIN_CHAT_ID"`

	DatabasePath    string `env:"DATABASE_PATH" envDefault:"data/matchday.sqlite"`
	RestartFlagPath string `env:"RESTART_FLAG_PATH" envDefault:"data/.restart_flag"`
	Timezone        string `env:"TIMEZONE" envDefault:"Europe/London"`

	loc *time.Location
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	// A .env file is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Sugar().Panic(err)
	}

	if err := cfg.validate(); err != nil {
		log.Sugar().Panic(err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Sugar().Warnf("Unknown timezone %q, falling back to UTC", cfg.Timezone)
		loc = time.UTC
	}
	cfg.loc = loc

	return cfg
}

func (cfg *Config) validate() error {
	if cfg.FootballAPIKey == "" {
		return errors.New("FOOTBALL_API_KEY envvar must be populated")
	}
	if cfg.BotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN envvar must be populated")
	}
	if cfg.AdminChatID == "" {
		return errors.New("ADMIN_CHAT_ID envvar must be populated")
	}
	return nil
}

// Location is the timezone used for digest date math and kickoff display.
func (cfg *Config) Location() *time.Location {
	if cfg.loc == nil {
		return time.UTC
	}
	return cfg.loc
}
