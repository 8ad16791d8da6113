package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"epoxy_monitor/internal/tracker"

	"github.com/spf13/viper"
)

// Config is the application configuration read from configs/config.yml
// and EPOXY_* environment variables.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	Auth    AuthConfig
	Session SessionConfig
	Tracker TrackerConfig
	Kafka   KafkaConfig
}

type AuthConfig struct {
	Username     string
	Password     string // plaintext, hashed at startup when PasswordHash is empty
	PasswordHash string // bcrypt
	SigningKey   string
	TokenTTL     time.Duration
}

type SessionConfig struct {
	IdleTTL      time.Duration
	ReapInterval time.Duration
}

type TrackerConfig struct {
	NotificationPolicy tracker.NotificationPolicy
}

// KafkaConfig enables notification fan-out when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

const envPrefix = "EPOXY"

var errNoSigningKey = errors.New("auth.signing_key must be set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.username", "operator")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("session.idle_ttl", 30*time.Minute)
	v.SetDefault("session.reap_interval", time.Minute)
	v.SetDefault("tracker.notification_policy", "sticky")
	v.SetDefault("kafka.topic", "epoxy.notifications")
}

// Load reads config.yml from dir. A missing file is not an error; defaults
// and environment still apply.
func Load(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	policy, err := tracker.ParsePolicy(v.GetString("tracker.notification_policy"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     v.GetString("port"),
		DBPath:   v.GetString("db.path"),
		LogLevel: v.GetString("log.level"),
		Auth: AuthConfig{
			Username:     v.GetString("auth.username"),
			Password:     v.GetString("auth.password"),
			PasswordHash: v.GetString("auth.password_hash"),
			SigningKey:   v.GetString("auth.signing_key"),
			TokenTTL:     v.GetDuration("auth.token_ttl"),
		},
		Session: SessionConfig{
			IdleTTL:      v.GetDuration("session.idle_ttl"),
			ReapInterval: v.GetDuration("session.reap_interval"),
		},
		Tracker: TrackerConfig{NotificationPolicy: policy},
		Kafka: KafkaConfig{
			Brokers: splitBrokers(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
	}

	if cfg.Auth.SigningKey == "" {
		return Config{}, errNoSigningKey
	}
	if cfg.Session.ReapInterval <= 0 {
		return Config{}, fmt.Errorf("session.reap_interval must be positive, got %v", cfg.Session.ReapInterval)
	}
	return cfg, nil
}

// splitBrokers accepts both a YAML list and a comma-separated env value.
func splitBrokers(in []string) []string {
	var out []string
	for _, s := range in {
		for _, b := range strings.Split(s, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}
