package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the loaded configuration
type Config struct {
	Env            string        `mapstructure:"env"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	StoreDriver    string        `mapstructure:"store_driver"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
	RedisURL       string        `mapstructure:"redis_url"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	MockAPIPort    string        `mapstructure:"mock_api_port"`
	JWTSecret      string        `mapstructure:"jwt_secret"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
}

// Load reads .env (if present), STOREFRONT_* environment variables and an
// optional storefront.yaml from configDir.
func Load(configDir string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configDir != "" {
		v.SetConfigName("storefront")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config file : %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate rejects configurations the store cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("invalid store driver %q", c.StoreDriver)
	}
	if c.StoreDriver == "redis" && c.RedisURL == "" {
		return errors.New("redis store driver needs redis_url")
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return errors.New("sqlite store driver needs sqlite_path")
	}
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("api_base_url", "http://localhost:8081/api/")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("store_driver", "sqlite")
	v.SetDefault("sqlite_path", "storefront.db")
	v.SetDefault("redis_url", "")
	v.SetDefault("key_prefix", "")
	v.SetDefault("mock_api_port", "8081")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("jwt_ttl", 24*time.Hour)
}
