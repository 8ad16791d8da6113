package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"epoxy_monitor/internal/tracker"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_FileValues(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
db:
  path: /tmp/epoxy.db
log:
  level: debug
auth:
  username: alice
  password: s3cr3t
  signing_key: k
  token_ttl: 15m
session:
  idle_ttl: 5m
  reap_interval: 10s
tracker:
  notification_policy: live
kafka:
  brokers: ["b1:9092", "b2:9092"]
  topic: t1
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBPath != "/tmp/epoxy.db" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected base config: %+v", cfg)
	}
	if cfg.Auth.Username != "alice" || cfg.Auth.Password != "s3cr3t" || cfg.Auth.TokenTTL != 15*time.Minute {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Session.IdleTTL != 5*time.Minute || cfg.Session.ReapInterval != 10*time.Second {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Tracker.NotificationPolicy != tracker.PolicyLive {
		t.Fatalf("expected live policy")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Topic != "t1" {
		t.Fatalf("unexpected kafka config: %+v", cfg.Kafka)
	}
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("EPOXY_AUTH_SIGNING_KEY", "from-env")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "app.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.SigningKey != "from-env" || cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Session.IdleTTL != 30*time.Minute {
		t.Fatalf("unexpected idle ttl: %v", cfg.Session.IdleTTL)
	}
	if cfg.Tracker.NotificationPolicy != tracker.PolicySticky {
		t.Fatalf("expected sticky policy by default")
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("kafka should be disabled by default: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_EnvOverridesAndBrokerList(t *testing.T) {
	dir := writeConfig(t, "auth:\n  signing_key: k\n")
	t.Setenv("EPOXY_PORT", "7070")
	t.Setenv("EPOXY_KAFKA_BROKERS", "a:1, b:2")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env port not applied: %q", cfg.Port)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "a:1" || cfg.Kafka.Brokers[1] != "b:2" {
		t.Fatalf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]string{
		"missing signing key": "port: \"1\"\n",
		"bad policy":          "auth:\n  signing_key: k\ntracker:\n  notification_policy: maybe\n",
		"bad reap interval":   "auth:\n  signing_key: k\nsession:\n  reap_interval: 0s\n",
		"malformed yaml":      "auth: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
