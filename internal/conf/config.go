// Package conf holds the CLI's configuration surface: only the sections
// this tool uses (HTTP transport, TLS, logging), unlike the
// teacher's internal/conf/config.go which also carries Database,
// Scheme, Cors, S3, FTP and task-queue sections for its server role.
package conf

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// HTTP holds outbound transport settings for every ranged GET this
// tool issues.
type HTTP struct {
	TimeoutSeconds      int    `json:"timeout_seconds"`
	Proxy               string `json:"proxy"`
	TLSInsecureSkipVerify bool `json:"tls_insecure_skip_verify"`
}

// Timeout returns the configured HTTP timeout, defaulting to 30s.
func (h HTTP) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// Log mirrors the shape of the teacher's LogConfig, minus the fields
// this CLI never uses.
type Log struct {
	// Enable is parsed but not read; file logging is on whenever File
	// is set.
	Enable     bool   `json:"enable"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age"`
	Compress   bool   `json:"compress"`
}

// Config is the top-level configuration document, loadable via
// --config.
type Config struct {
	HTTP HTTP `json:"http"`
	Log  Log  `json:"log"`
}

// Default returns the zero-config defaults used when no --config file
// is given.
func Default() Config {
	return Config{
		HTTP: HTTP{TimeoutSeconds: 30},
	}
}

// Load reads and parses a JSON configuration file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", path)
	}
	return cfg, nil
}
