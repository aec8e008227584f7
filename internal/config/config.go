package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Kitchen  KitchenConfig  `yaml:"kitchen"`
	HTTP     HTTPConfig     `yaml:"http"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// SessionTTL bounds the lifetime of an abandoned builder session.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type AuthConfig struct {
	// Secret signs session tokens; CustomTokenSecret verifies tokens
	// minted by the trusted external issuer.
	Secret            string        `yaml:"secret"`
	CustomTokenSecret string        `yaml:"custom_token_secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	AdminPIN          string        `yaml:"admin_pin"`
}

type GeocoderConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Debounce time.Duration `yaml:"debounce"`
}

// KitchenConfig pins the fixed origin every delivery starts from.
type KitchenConfig struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type HTTPConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Redis: RedisConfig{
			SessionTTL: time.Hour,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
			AdminPIN: "2001",
		},
		Geocoder: GeocoderConfig{
			BaseURL:  "https://nominatim.openstreetmap.org",
			Timeout:  10 * time.Second,
			Debounce: 800 * time.Millisecond,
		},
		Kitchen: KitchenConfig{
			Name: "Mixit HQ",
			Lat:  10.5105,
			Lng:  7.4165,
		},
	}
}
