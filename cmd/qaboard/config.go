package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"qaboard/internal/common/cache"
	"qaboard/internal/common/mq"
	"qaboard/internal/qa/model"
	"qaboard/internal/qa/service"
	"qaboard/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20

	defaultViewTTL        = 30 * time.Minute
	defaultViewMaxEntries = 10000
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
}

// AuthConfig selects how the vote credential is checked.
type AuthConfig struct {
	Mode      string `yaml:"mode"` // presence | jwt
	JWTSecret string `yaml:"jwtSecret"`
	JWTIssuer string `yaml:"jwtIssuer"`
}

// ViewsConfig holds view store settings.
type ViewsConfig struct {
	Store      string        `yaml:"store"` // memory | redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
}

// SubmitConfig selects where composition drafts go.
type SubmitConfig struct {
	Mode  string `yaml:"mode"` // log | kafka
	Topic string `yaml:"topic"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	Enabled          bool          `yaml:"enabled"`
	AllowedOrigins   []string      `yaml:"allowedOrigins"`
	AllowedMethods   []string      `yaml:"allowedMethods"`
	AllowedHeaders   []string      `yaml:"allowedHeaders"`
	ExposedHeaders   []string      `yaml:"exposedHeaders"`
	AllowCredentials bool          `yaml:"allowCredentials"`
	MaxAge           time.Duration `yaml:"maxAge"`
}

// AppConfig holds the qaboard configuration.
type AppConfig struct {
	Server ServerConfig      `yaml:"server"`
	Logger logger.Config     `yaml:"logger"`
	Auth   AuthConfig        `yaml:"auth"`
	Viewer model.Viewer      `yaml:"viewer"`
	Views  ViewsConfig       `yaml:"views"`
	Redis  cache.RedisConfig `yaml:"redis"`
	Submit SubmitConfig      `yaml:"submit"`
	Kafka  mq.KafkaConfig    `yaml:"kafka"`
	CORS   CORSConfig        `yaml:"cors"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}

	cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(cfg.Auth.Mode))
	switch cfg.Auth.Mode {
	case "":
		cfg.Auth.Mode = "presence"
	case "presence":
	case "jwt":
		if cfg.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwtSecret is required when auth.mode is jwt")
		}
	default:
		return fmt.Errorf("unknown auth.mode %q", cfg.Auth.Mode)
	}

	if cfg.Viewer.Username == "" {
		cfg.Viewer = service.DefaultViewer
	}
	if cfg.Viewer.Reputation < 0 {
		return fmt.Errorf("viewer.reputation must not be negative")
	}

	cfg.Views.Store = strings.ToLower(strings.TrimSpace(cfg.Views.Store))
	if cfg.Views.TTL == 0 {
		cfg.Views.TTL = defaultViewTTL
	}
	if cfg.Views.TTL < 0 {
		return fmt.Errorf("views.ttl must be positive")
	}
	if cfg.Views.MaxEntries == 0 {
		cfg.Views.MaxEntries = defaultViewMaxEntries
	}
	switch cfg.Views.Store {
	case "":
		cfg.Views.Store = "memory"
	case "memory":
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required when views.store is redis")
		}
		cfg.Redis.ApplyDefaults()
	default:
		return fmt.Errorf("unknown views.store %q", cfg.Views.Store)
	}

	cfg.Submit.Mode = strings.ToLower(strings.TrimSpace(cfg.Submit.Mode))
	switch cfg.Submit.Mode {
	case "":
		cfg.Submit.Mode = "log"
	case "log":
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka brokers are required when submit.mode is kafka")
		}
		cfg.Kafka.ApplyDefaults()
	default:
		return fmt.Errorf("unknown submit.mode %q", cfg.Submit.Mode)
	}
	return nil
}
