package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	Host              string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port              int    `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User              string `yaml:"user" env:"MONGO_USER"`
	Password          string `yaml:"password" env:"MONGO_PASSWORD"`
	AuthDB            string `yaml:"auth_db" env:"MONGO_AUTH_DB" env-default:"admin"`
	AuthMechanism     string `yaml:"auth_mechanism" env:"MONGO_AUTH_MECHANISM" env-default:"SCRAM-SHA-1"`
	Database          string `yaml:"db" env:"MONGO_DB" env-default:"school"`
	Collection        string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"students"`
	ConnectTimeoutSec int    `yaml:"connect_timeout_sec" env:"MONGO_CONNECT_TIMEOUT_SEC" env-default:"10"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables, optionally layered over a YAML file.
type AppConfig struct {
	Env      string      `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Addr     string      `yaml:"http_addr" env:"HTTP_ADDR" env-default:"127.0.0.1:3001"`
	LogLevel string      `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Mongo    MongoConfig `yaml:"mongo"`
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// When CONFIG_PATH is set, that YAML file is read first and the environment overrides it.
func Load() (*AppConfig, error) {
	var cfg AppConfig

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		// ReadConfig also applies env overrides and defaults.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return &cfg, nil
}
