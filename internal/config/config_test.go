package config

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "STORAGE_BACKEND", "JWT_SECRET", "ACCESS_PASSCODE_HASH", "RATE_MAX_AGE", "LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := Load(quietLogger()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if AppEnv.Port != "8080" {
		t.Fatalf("port = %q", AppEnv.Port)
	}
	if AppEnv.StorageBackend != BackendMemory {
		t.Fatalf("backend = %q", AppEnv.StorageBackend)
	}
	if AppEnv.RateMaxAge != 24*time.Hour || AppEnv.AccessTokenTTL != 12*time.Hour {
		t.Fatalf("unexpected durations: %+v", AppEnv)
	}
	if AppEnv.AuthEnabled() {
		t.Fatal("auth must be disabled without a secret")
	}
}

func TestValidate(t *testing.T) {
	base := Config{StorageBackend: BackendMemory, AccessTokenTTL: time.Hour, LogLevel: "info"}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory ok", func(*Config) {}, ""},
		{"mongo without uri", func(c *Config) { c.StorageBackend = BackendMongo }, "MONGO_URI"},
		{"redis without addr", func(c *Config) { c.StorageBackend = BackendRedis }, "REDIS_ADDR"},
		{"unknown backend", func(c *Config) { c.StorageBackend = "sqlite" }, "unknown STORAGE_BACKEND"},
		{"secret without hash", func(c *Config) { c.JWTSecret = "s" }, "must be set together"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "loud"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}
