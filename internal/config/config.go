package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	// Storage selects the backing store: "postgres" or "memory". The memory
	// store is self-seeding and needs no database.
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		// Cache TTL for optimization report reads, in seconds.
		ReportTTLSeconds int `mapstructure:"report_ttl_seconds"`
	} `mapstructure:"redis"`

	S3 struct {
		Enabled       bool   `mapstructure:"enabled"`
		Endpoint      string `mapstructure:"endpoint"`
		Region        string `mapstructure:"region"`
		AccessKey     string `mapstructure:"access_key"`
		SecretKey     string `mapstructure:"secret_key"`
		Bucket        string `mapstructure:"bucket"`
		PublicBaseURL string `mapstructure:"public_base_url"`
	} `mapstructure:"s3"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Sensible defaults so the binary works without a config file.
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "bakery-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "bakery_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.report_ttl_seconds", 300)
	v.SetDefault("s3.region", "auto")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Environment variables win over the config file.
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Enabled = true
		cfg.S3.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.S3.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.S3.SecretKey = secret
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}

	return &cfg
}
