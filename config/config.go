package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // lobby-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

type Session struct {
	Path string `yaml:"path"`
}

// Lobby — тайминги жизненного цикла комнат. Две «тридцатки» — разные
// константы: задержка клиентской проверки и возраст для sweep-а.
type Lobby struct {
	DefaultMaxMembers int    `yaml:"defaultMaxMembers"`
	MaxMessageLen     int    `yaml:"maxMessageLen"`
	CheckAfter        string `yaml:"checkAfter"` // разовая проверка после создания
	SweepEvery        string `yaml:"sweepEvery"` // период серверной уборки
	StaleAfter        string `yaml:"staleAfter"` // минимальный возраст кандидата
	Lookback          string `yaml:"lookback"`   // окно запроса уборки
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Session  Session  `yaml:"session"`
	Lobby    Lobby    `yaml:"lobby"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Logging.Service == "" {
		c.Logging.Service = "lobby-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Session.Path == "" {
		c.Session.Path = "./session.yaml"
	}
	if c.Lobby.DefaultMaxMembers <= 0 {
		c.Lobby.DefaultMaxMembers = 10
	}
	if c.Lobby.MaxMessageLen <= 0 {
		c.Lobby.MaxMessageLen = 4000
	}
	return nil
}

func (l Lobby) CheckAfterDur() time.Duration {
	return parseDurationOr(30*time.Second, l.CheckAfter)
}

func (l Lobby) SweepEveryDur() time.Duration {
	return parseDurationOr(2*time.Minute, l.SweepEvery)
}

func (l Lobby) StaleAfterDur() time.Duration {
	return parseDurationOr(30*time.Second, l.StaleAfter)
}

func (l Lobby) LookbackDur() time.Duration {
	return parseDurationOr(5*time.Minute, l.Lookback)
}

// helper для парсинга timeout-ов
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
