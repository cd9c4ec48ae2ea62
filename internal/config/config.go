package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	Order    OrderConfig
	Midtrans MidtransConfig
	Reseller ResellerConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Session  SessionConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port int
}

type AppConfig struct {
	// Debug echoes raw error text in admin responses. Never enable in production.
	Debug    bool
	Timezone string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type OrderConfig struct {
	NumberPrefix      string
	NumberMaxAttempts int
	CreateTxTimeout   time.Duration
	PaymentMethod     string
}

type MidtransConfig struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
	Timeout      time.Duration
}

type ResellerConfig struct {
	BaseURL         string
	APIID           string
	APIKey          string
	Timeout         time.Duration
	MaxRetries      int
	MarkupPercent   float64
	DefaultCategory string
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	SyncLockTTL  time.Duration
	SyncLockName string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SessionConfig struct {
	Name   string
	Secret string
	MaxAge time.Duration
	Secure bool
}

type JobsConfig struct {
	ResellerSyncSchedule string
	OrderExpirySchedule  string
}

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("internal/config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "wmx")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "wmx")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("ORDER_NUMBER_PREFIX", "WMX")
	v.SetDefault("ORDER_NUMBER_MAX_ATTEMPTS", 5)
	v.SetDefault("ORDER_CREATE_TX_TIMEOUT", "5s")
	v.SetDefault("ORDER_PAYMENT_METHOD", "E_WALLET")
	v.SetDefault("MIDTRANS_SERVER_KEY", "")
	v.SetDefault("MIDTRANS_CLIENT_KEY", "")
	v.SetDefault("MIDTRANS_IS_PRODUCTION", false)
	v.SetDefault("MIDTRANS_TIMEOUT", "10s")
	v.SetDefault("RESELLER_BASE_URL", "https://vip-reseller.co.id/api")
	v.SetDefault("RESELLER_API_ID", "")
	v.SetDefault("RESELLER_API_KEY", "")
	v.SetDefault("RESELLER_TIMEOUT", "10s")
	v.SetDefault("RESELLER_MAX_RETRIES", 2)
	v.SetDefault("RESELLER_MARKUP_PERCENT", 0)
	v.SetDefault("RESELLER_DEFAULT_CATEGORY", "Top Up Game")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_SYNC_LOCK_TTL", "10m")
	v.SetDefault("REDIS_SYNC_LOCK_NAME", "wmx:lock:reseller-sync")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "wmx.orders")
	v.SetDefault("SESSION_NAME", "wmx_session")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_MAX_AGE", "24h")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("JOBS_RESELLER_SYNC_SCHEDULE", "")
	v.SetDefault("JOBS_ORDER_EXPIRY_SCHEDULE", "@every 1m")

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"DB_CONN_MAX_LIFETIME",
		"ORDER_CREATE_TX_TIMEOUT",
		"MIDTRANS_TIMEOUT",
		"RESELLER_TIMEOUT",
		"REDIS_SYNC_LOCK_TTL",
		"SESSION_MAX_AGE",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		App: AppConfig{
			Debug:    v.GetBool("APP_DEBUG"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: durations["DB_CONN_MAX_LIFETIME"],
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Order: OrderConfig{
			NumberPrefix:      v.GetString("ORDER_NUMBER_PREFIX"),
			NumberMaxAttempts: v.GetInt("ORDER_NUMBER_MAX_ATTEMPTS"),
			CreateTxTimeout:   durations["ORDER_CREATE_TX_TIMEOUT"],
			PaymentMethod:     v.GetString("ORDER_PAYMENT_METHOD"),
		},
		Midtrans: MidtransConfig{
			ServerKey:    v.GetString("MIDTRANS_SERVER_KEY"),
			ClientKey:    v.GetString("MIDTRANS_CLIENT_KEY"),
			IsProduction: v.GetBool("MIDTRANS_IS_PRODUCTION"),
			Timeout:      durations["MIDTRANS_TIMEOUT"],
		},
		Reseller: ResellerConfig{
			BaseURL:         v.GetString("RESELLER_BASE_URL"),
			APIID:           v.GetString("RESELLER_API_ID"),
			APIKey:          v.GetString("RESELLER_API_KEY"),
			Timeout:         durations["RESELLER_TIMEOUT"],
			MaxRetries:      v.GetInt("RESELLER_MAX_RETRIES"),
			MarkupPercent:   v.GetFloat64("RESELLER_MARKUP_PERCENT"),
			DefaultCategory: v.GetString("RESELLER_DEFAULT_CATEGORY"),
		},
		Redis: RedisConfig{
			Addr:         v.GetString("REDIS_ADDR"),
			Password:     v.GetString("REDIS_PASSWORD"),
			DB:           v.GetInt("REDIS_DB"),
			SyncLockTTL:  durations["REDIS_SYNC_LOCK_TTL"],
			SyncLockName: v.GetString("REDIS_SYNC_LOCK_NAME"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
		Session: SessionConfig{
			Name:   v.GetString("SESSION_NAME"),
			Secret: v.GetString("SESSION_SECRET"),
			MaxAge: durations["SESSION_MAX_AGE"],
			Secure: v.GetBool("SESSION_SECURE"),
		},
		Jobs: JobsConfig{
			ResellerSyncSchedule: v.GetString("JOBS_RESELLER_SYNC_SCHEDULE"),
			OrderExpirySchedule:  v.GetString("JOBS_ORDER_EXPIRY_SCHEDULE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

const minSessionSecretLen = 32

func (c *Config) validate() error {
	if len(c.Session.Secret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be set to at least %d bytes", minSessionSecretLen)
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
