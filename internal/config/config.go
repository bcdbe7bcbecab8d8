// Package config provides the configuration schema and loader for the
// voxcheck analysis server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity for the voxcheck server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration wraps [time.Duration] so YAML values can be written as duration
// strings (e.g. "30s", "2m").
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped [time.Duration].
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure for voxcheck.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Analysis AnalysisConfig `yaml:"analysis"`
}

// ServerConfig holds network, logging, and cross-origin settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8000").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`

	// CORS configures cross-origin access for browser and mobile clients.
	CORS CORSConfig `yaml:"cors"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// CORSConfig controls the Access-Control-Allow-* response headers.
type CORSConfig struct {
	// AllowedOrigins lists origins permitted to call the API. A single "*"
	// entry allows any origin. Defaults to "*".
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// AnalysisConfig bounds the per-request resource usage of the serving
// layer. The acoustic analysis itself is fixed (22050 Hz, 10 s cap) and
// not configurable.
type AnalysisConfig struct {
	// MaxUploadBytes caps the accepted upload size. Default: 25 MiB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// MaxConcurrent caps how many analyses run at once. Extraction is
	// CPU-bound; requests beyond the cap wait. Default: 4.
	MaxConcurrent int `yaml:"max_concurrent"`

	// RequestTimeout is the wall-clock budget for a single analysis
	// request, including decode. Default: 30s.
	RequestTimeout Duration `yaml:"request_timeout"`
}
