package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerCfg struct {
	Port                string `mapstructure:"port"`
	MetricsPort         string `mapstructure:"metrics_port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	Development         bool   `mapstructure:"development"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaCfg struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type AuthCfg struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	LoginPath string `mapstructure:"login_path"`
}

// BookingCfg points at the external booking service that owns the
// appointment lifecycle; we only read from it.
type BookingCfg struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type MailCfg struct {
	SendGridKey string `mapstructure:"sendgrid_key"`
	FromName    string `mapstructure:"from_name"`
	FromAddress string `mapstructure:"from_address"`
	ToAddress   string `mapstructure:"to_address"`
}

type Config struct {
	Server  ServerCfg  `mapstructure:"server"`
	Mongo   MongoCfg   `mapstructure:"mongo"`
	Redis   RedisCfg   `mapstructure:"redis"`
	Kafka   KafkaCfg   `mapstructure:"kafka"`
	Auth    AuthCfg    `mapstructure:"auth"`
	Booking BookingCfg `mapstructure:"booking"`
	Mail    MailCfg    `mapstructure:"mail"`
	// Derived
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	BookingTimeout time.Duration
}

// Load reads config.yaml if present and applies APP_* environment
// overrides (APP_SERVER_PORT, APP_MONGO_URI, ...).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.metrics_port", "9091")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "wellness")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.prefix", "wellness")
	v.SetDefault("kafka.topic", "chat.message.sent")
	v.SetDefault("auth.login_path", "/doctor-login")
	v.SetDefault("booking.timeout_seconds", 10)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env and defaults carry the config.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !isNotExist(err) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.ReadTimeout = time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second
	cfg.BookingTimeout = time.Duration(cfg.Booking.TimeoutSeconds) * time.Second
	return &cfg, nil
}

func isNotExist(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file")
}
