package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Event bus drivers.
const (
	EventsDriverNone  = "none"
	EventsDriverNATS  = "nats"
	EventsDriverKafka = "kafka"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseDriver      string
	DatabaseURL         string
	DatabaseAutoMigrate bool
	RedisURL            string
	SummaryCacheTTL     time.Duration
	EventsDriver        string
	NATSURL             string
	NATSSubject         string
	KafkaBrokers        []string
	KafkaTopic          string
	JWTSecret           string
	RateLimitMax        int
	RateLimitWindow     time.Duration
	CORSAllowOrigins    string
	LogLevel            string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether the service runs in a local environment.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development" || c.AppEnv == "local"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HUSKYHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "HuskyHub API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("summary.cache_ttl", "1m")
	v.SetDefault("events.driver", EventsDriverNone)
	v.SetDefault("nats.subject", "huskyhub.moderation")
	v.SetDefault("kafka.topic", "huskyhub.moderation")
	v.SetDefault("rate_limit.max", 30)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("log.level", "info")

	ttl, err := parseDuration(v.GetString("summary.cache_ttl"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	window, err := parseDuration(v.GetString("rate_limit.window"), time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseDriver:      strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:         v.GetString("database.url"),
		DatabaseAutoMigrate: v.GetBool("database.auto_migrate"),
		RedisURL:            v.GetString("redis.url"),
		SummaryCacheTTL:     ttl,
		EventsDriver:        strings.ToLower(v.GetString("events.driver")),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		KafkaBrokers:        splitList(v.GetString("kafka.brokers")),
		KafkaTopic:          v.GetString("kafka.topic"),
		JWTSecret:           v.GetString("jwt.secret"),
		RateLimitMax:        v.GetInt("rate_limit.max"),
		RateLimitWindow:     window,
		CORSAllowOrigins:    strings.Join(splitList(v.GetString("cors.allow_origins")), ","),
		LogLevel:            strings.ToLower(v.GetString("log.level")),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	switch cfg.EventsDriver {
	case EventsDriverNone, "":
		cfg.EventsDriver = EventsDriverNone
	case EventsDriverNATS:
		if cfg.NATSURL == "" {
			return Config{}, fmt.Errorf("nats url must be provided when events driver is nats")
		}
	case EventsDriverKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, fmt.Errorf("kafka brokers must be provided when events driver is kafka")
		}
	default:
		return Config{}, fmt.Errorf("unsupported events driver %q", cfg.EventsDriver)
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 30
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
