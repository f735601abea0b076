package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HOSTBOARD_"

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" envPrefix:"SERVER_"`
	DB         DBConfig         `yaml:"db" envPrefix:"DB_"`
	Log        LogConfig        `yaml:"log" envPrefix:"LOG_"`
	Transport  TransportConfig  `yaml:"transport" envPrefix:"TRANSPORT_"`
	DataSource DataSourceConfig `yaml:"datasource" envPrefix:"DATASOURCE_"`
	Labels     LabelsConfig     `yaml:"labels" envPrefix:"LABELS_"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"HOST"`
	Port int    `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
}

type DBConfig struct {
	Path         string `yaml:"path" env:"PATH" validate:"required"`
	FixturesPath string `yaml:"fixtures_path" env:"FIXTURES_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Path  string `yaml:"path" env:"PATH"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" env:"MODE" validate:"oneof=http stdio"`
}

type DataSourceConfig struct {
	Kind      string        `yaml:"kind" env:"KIND" validate:"oneof=sqlite graphql"`
	GraphQL   GraphQLConfig `yaml:"graphql" envPrefix:"GRAPHQL_"`
	CacheTTL  time.Duration `yaml:"cache_ttl" env:"CACHE_TTL" validate:"min=0"`
	CacheSize int           `yaml:"cache_size" env:"CACHE_SIZE" validate:"min=0"`
}

type GraphQLConfig struct {
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT" validate:"omitempty,url"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"min=0"`
}

type LabelsConfig struct {
	Locale string `yaml:"locale" env:"LOCALE" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "hostboard.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DataSource: DataSourceConfig{
			Kind:      "sqlite",
			GraphQL:   GraphQLConfig{Timeout: 10 * time.Second},
			CacheTTL:  time.Minute,
			CacheSize: 256,
		},
		Labels: LabelsConfig{
			Locale: "en-US",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the GraphQL endpoint requirement.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Kind == "graphql" && c.DataSource.GraphQL.Endpoint == "" {
		return errors.New("invalid config: datasource.graphql.endpoint is required when datasource.kind is graphql")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
