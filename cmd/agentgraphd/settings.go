package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/api"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/catalog"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
)

// settings is the server section of the settings file:
//
//	server:
//	  addr: ":8080"
//	  read_timeout: 15s
//	  write_timeout: 15s
//	  shutdown_timeout: 30s
//	  max_body_bytes: 4194304
//	store:
//	  driver: sqlite   # or memory
//	  path: agentgraph.db
//	catalog:
//	  path: templates.hcl
//	log:
//	  level: info
//	  format: json     # or text
type settings struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	StoreDriver string
	StorePath   string
	CatalogPath string

	LogLevel  slog.Level
	LogFormat string
}

func loadSettings(path string) (settings, error) {
	cfg := config.New(nil)
	if path != "" {
		var err error
		if cfg, err = config.FromFile(path); err != nil {
			return settings{}, err
		}
	}
	return settingsFromConfig(cfg)
}

func settingsFromConfig(cfg config.Config) (settings, error) {
	server := cfg.Sub("server")
	store := cfg.Sub("store")
	logCfg := cfg.Sub("log")

	s := settings{
		Addr:            server.String("addr", ":8080"),
		ReadTimeout:     server.Duration("read_timeout", 15*time.Second),
		WriteTimeout:    server.Duration("write_timeout", 15*time.Second),
		ShutdownTimeout: server.Duration("shutdown_timeout", 30*time.Second),
		MaxBodyBytes:    int64(server.Int("max_body_bytes", api.DefaultMaxBodyBytes)),
		StoreDriver:     strings.ToLower(store.String("driver", "sqlite")),
		StorePath:       store.String("path", "agentgraph.db"),
		CatalogPath:     cfg.Sub("catalog").String("path", ""),
		LogFormat:       strings.ToLower(logCfg.String("format", "json")),
	}
	if err := s.LogLevel.UnmarshalText([]byte(logCfg.String("level", "info"))); err != nil {
		return settings{}, fmt.Errorf("log.level: %w", err)
	}
	switch s.StoreDriver {
	case "sqlite", "memory":
	default:
		return settings{}, fmt.Errorf("store.driver: unknown driver %q", s.StoreDriver)
	}
	return s, nil
}

func (s settings) logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: s.LogLevel}
	if s.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func (s settings) openStore() (persist.Store, error) {
	if s.StoreDriver == "memory" {
		return persist.NewMemoryStore(), nil
	}
	return persist.NewSQLiteStore(s.StorePath)
}

func (s settings) catalog() (*catalog.Catalog, error) {
	if s.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.FromFile(s.CatalogPath)
}
