package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: map[string]string{}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.AdminKey != "VIM-STAFF-2025" {
		t.Errorf("AdminKey = %q", cfg.AdminKey)
	}
	if cfg.StoreDriver != "file" || cfg.DataFile != "data.json" {
		t.Errorf("store = %q %q", cfg.StoreDriver, cfg.DataFile)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "port overrides addr",
			env:  map[string]string{"HTTP_ADDR": ":9000", "PORT": "8081"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.HTTPAddr != ":8081" {
					t.Errorf("HTTPAddr = %q, want :8081", cfg.HTTPAddr)
				}
			},
		},
		{
			name: "sqlite driver",
			env:  map[string]string{"STORE_DRIVER": "sqlite", "DB_PATH": "/tmp/x.db", "LOG_LEVEL": "DEBUG"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.StoreDriver != "sqlite" || cfg.DBPath != "/tmp/x.db" {
					t.Errorf("store = %q %q", cfg.StoreDriver, cfg.DBPath)
				}
				if cfg.LogLevel != slog.LevelDebug {
					t.Errorf("LogLevel = %v", cfg.LogLevel)
				}
			},
		},
		{
			name:    "unknown store driver",
			env:     map[string]string{"STORE_DRIVER": "mongo"},
			wantErr: true,
		},
		{
			name:    "redis without url",
			env:     map[string]string{"SESSION_DRIVER": "redis"},
			wantErr: true,
		},
		{
			name: "redis with url",
			env:  map[string]string{"SESSION_DRIVER": "redis", "REDIS_URL": "redis://localhost:6379/0"},
		},
		{
			name:    "bad duration",
			env:     map[string]string{"SESSION_TTL": "soon"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse(env.Options{Environment: tt.env})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
