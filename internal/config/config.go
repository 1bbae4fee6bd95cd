// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

// Package config loads layered service configuration: built-in defaults,
// an optional YAML file, then command-line flags.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the guardian service.
type Config struct {
	APIAddr      string        `koanf:"api-addr"`
	MetricsAddr  string        `koanf:"metrics-addr"`
	DatabaseURL  string        `koanf:"database-url"`
	TokenSecret  string        `koanf:"token-secret"`
	TokenTTL     time.Duration `koanf:"token-ttl"`
	HashCost     int           `koanf:"hash-cost"`
	LogFormat    string        `koanf:"log-format"`
	SMTPHost     string        `koanf:"smtp-host"`
	SMTPPort     int           `koanf:"smtp-port"`
	SMTPUsername string        `koanf:"smtp-username"`
	SMTPPassword string        `koanf:"smtp-password"`
	MailSender   string        `koanf:"mail-sender"`
}

// Default returns the built-in defaults. The empty token secret and
// database URL are deliberate: serve refuses to start without them.
func Default() Config {
	return Config{
		APIAddr:     ":8080",
		MetricsAddr: "127.0.0.1:9100",
		TokenTTL:    24 * time.Hour,
		HashCost:    12,
		LogFormat:   "json",
		SMTPHost:    "localhost",
		SMTPPort:    587,
		MailSender:  "contato.petjournal@gmail.com",
	}
}

// Load builds a Config from defaults, the optional YAML file at path,
// and the given flag set (highest precedence). The DATABASE_URL
// environment variable fills the database URL when nothing else set it.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		// Changed flags override the file; unchanged flag defaults do not.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "unmarshal config").Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no sane fallback.
func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("api-addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").With("log-format", c.LogFormat).Errorf("log-format must be 'json' or 'text'")
	}
	if c.HashCost < 4 || c.HashCost > 31 {
		return oops.Code("CONFIG_INVALID").With("hash-cost", c.HashCost).Errorf("hash-cost must be between 4 and 31")
	}
	if c.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("token-ttl", c.TokenTTL.String()).Errorf("token-ttl must be positive")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return oops.Code("CONFIG_INVALID").With("smtp-port", c.SMTPPort).Errorf("smtp-port out of range")
	}
	return nil
}
