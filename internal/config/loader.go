package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [LoadFromReader] for fields left unset.
const (
	DefaultListenAddr     = ":8000"
	DefaultMaxUploadBytes = 25 << 20
	DefaultMaxConcurrent  = 4
	DefaultRequestTimeout = 30 * time.Second
)

// Default returns a Config populated with all default values, suitable for
// running without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills in defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset fields in place.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if cfg.Analysis.MaxUploadBytes == 0 {
		cfg.Analysis.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Analysis.MaxConcurrent == 0 {
		cfg.Analysis.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.Analysis.RequestTimeout == 0 {
		cfg.Analysis.RequestTimeout = Duration(DefaultRequestTimeout)
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}
	for i, origin := range cfg.Server.CORS.AllowedOrigins {
		if origin == "" {
			errs = append(errs, fmt.Errorf("server.cors.allowed_origins[%d] is empty", i))
		}
	}

	if cfg.Analysis.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("analysis.max_upload_bytes %d must be positive", cfg.Analysis.MaxUploadBytes))
	}
	if cfg.Analysis.MaxConcurrent < 0 {
		errs = append(errs, fmt.Errorf("analysis.max_concurrent %d must be positive", cfg.Analysis.MaxConcurrent))
	}
	if cfg.Analysis.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("analysis.request_timeout %s must be positive", cfg.Analysis.RequestTimeout.Std()))
	}

	return errors.Join(errs...)
}
