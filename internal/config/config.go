package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. QA_REDIS_ADDR.
const EnvPrefix = "QA_"

type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Redis    RedisConfig    `yaml:"redis" envPrefix:"REDIS_"`
	Postgres PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`
	Quiz     QuizConfig     `yaml:"quiz" envPrefix:"QUIZ_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Scoring  ScoringConfig  `yaml:"scoring" envPrefix:"SCORING_"`
}

type ServerConfig struct {
	Port            string `yaml:"port" env:"PORT"`
	ShutdownTimeout string `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	// TTL bounds how long response and hub keys live without activity.
	TTL string `yaml:"ttl" env:"TTL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"URL"`
}

type QuizConfig struct {
	// TTL is the quiz cache lifetime.
	TTL string `yaml:"ttl" env:"TTL"`
	// Dir serves quiz definitions from <dir>/<id>.yaml or .json when no
	// database is configured.
	Dir string `yaml:"dir" env:"DIR"`
}

type LogConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"MAX_AGE_DAYS"`
}

// ScoringConfig tunes the cohort report.
type ScoringConfig struct {
	PassThreshold     int    `yaml:"passThreshold" env:"PASS_THRESHOLD"`
	LeaderboardSize   int    `yaml:"leaderboardSize" env:"LEADERBOARD_SIZE"`
	ErrorRankingLimit int    `yaml:"errorRankingLimit" env:"ERROR_RANKING_LIMIT"`
	GuestName         string `yaml:"guestName" env:"GUEST_NAME"`
	Timezone          string `yaml:"timezone" env:"TIMEZONE"`
	KPIBasis          string `yaml:"kpiBasis" env:"KPI_BASIS"`
}

// Default returns the settings used when neither file nor environment set a value.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: "8080", ShutdownTimeout: "5s"},
		Redis:   RedisConfig{TTL: "24h"},
		Quiz:    QuizConfig{TTL: "10m"},
		Log:     LogConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7},
		Scoring: ScoringConfig{PassThreshold: 60, LeaderboardSize: 3, ErrorRankingLimit: 10, GuestName: "Guest", Timezone: "UTC", KPIBasis: "skills"},
	}
}

// Load reads YAML config from path on top of the defaults, then applies
// QA_-prefixed environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects scoring values the report cannot honour. A pass
// threshold of 0 is valid and passes every response.
func (s ScoringConfig) Validate() error {
	if s.PassThreshold < 0 || s.PassThreshold > 100 {
		return fmt.Errorf("scoring.passThreshold must be within 0..100, got %d", s.PassThreshold)
	}
	if s.LeaderboardSize < 0 {
		return fmt.Errorf("scoring.leaderboardSize must not be negative, got %d", s.LeaderboardSize)
	}
	if s.ErrorRankingLimit < 0 {
		return fmt.Errorf("scoring.errorRankingLimit must not be negative, got %d", s.ErrorRankingLimit)
	}
	return nil
}

// Location resolves the configured timezone, UTC when unset.
func (s ScoringConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
