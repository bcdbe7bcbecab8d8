package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/voxcheck/voxcheck/internal/config"
)

const sampleYAML = `
server:
  listen_addr: ":9000"
  log_level: debug
  tls:
    cert_file: /etc/voxcheck/tls.crt
    key_file: /etc/voxcheck/tls.key
  cors:
    allowed_origins:
      - https://app.example.com
      - https://admin.example.com

analysis:
  max_upload_bytes: 10485760
  max_concurrent: 2
  request_timeout: 45s
`

func TestLoadFromReader_FullConfig(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddr != ":9000" {
		t.Errorf("listen_addr: got %q, want %q", cfg.Server.ListenAddr, ":9000")
	}
	if cfg.Server.LogLevel != config.LogDebug {
		t.Errorf("log_level: got %q, want %q", cfg.Server.LogLevel, config.LogDebug)
	}
	if cfg.Server.TLS == nil {
		t.Fatal("tls: got nil, want populated")
	}
	if cfg.Server.TLS.CertFile != "/etc/voxcheck/tls.crt" {
		t.Errorf("cert_file: got %q", cfg.Server.TLS.CertFile)
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 2 {
		t.Errorf("allowed_origins: got %d entries, want 2", len(cfg.Server.CORS.AllowedOrigins))
	}
	if cfg.Analysis.MaxUploadBytes != 10485760 {
		t.Errorf("max_upload_bytes: got %d, want 10485760", cfg.Analysis.MaxUploadBytes)
	}
	if cfg.Analysis.MaxConcurrent != 2 {
		t.Errorf("max_concurrent: got %d, want 2", cfg.Analysis.MaxConcurrent)
	}
	if cfg.Analysis.RequestTimeout.Std() != 45*time.Second {
		t.Errorf("request_timeout: got %v, want 45s", cfg.Analysis.RequestTimeout.Std())
	}
}

func TestLoadFromReader_EmptyInputGetsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddr != config.DefaultListenAddr {
		t.Errorf("listen_addr: got %q, want %q", cfg.Server.ListenAddr, config.DefaultListenAddr)
	}
	if cfg.Server.LogLevel != config.LogInfo {
		t.Errorf("log_level: got %q, want info", cfg.Server.LogLevel)
	}
	if cfg.Server.TLS != nil {
		t.Error("tls: got non-nil, want nil by default")
	}
	if len(cfg.Server.CORS.AllowedOrigins) != 1 || cfg.Server.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("allowed_origins: got %v, want [*]", cfg.Server.CORS.AllowedOrigins)
	}
	if cfg.Analysis.MaxUploadBytes != config.DefaultMaxUploadBytes {
		t.Errorf("max_upload_bytes: got %d, want %d", cfg.Analysis.MaxUploadBytes, config.DefaultMaxUploadBytes)
	}
	if cfg.Analysis.MaxConcurrent != config.DefaultMaxConcurrent {
		t.Errorf("max_concurrent: got %d, want %d", cfg.Analysis.MaxConcurrent, config.DefaultMaxConcurrent)
	}
	if cfg.Analysis.RequestTimeout.Std() != config.DefaultRequestTimeout {
		t.Errorf("request_timeout: got %v, want %v", cfg.Analysis.RequestTimeout.Std(), config.DefaultRequestTimeout)
	}
}

func TestDefault_MatchesEmptyLoad(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Server.ListenAddr != config.DefaultListenAddr {
		t.Errorf("listen_addr: got %q, want %q", cfg.Server.ListenAddr, config.DefaultListenAddr)
	}
}

func TestLoadFromReader_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: bananas
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_adress: ":9000"
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestLoadFromReader_BadDuration(t *testing.T) {
	t.Parallel()
	yaml := `
analysis:
  request_timeout: soon
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for malformed duration, got nil")
	}
	if !strings.Contains(err.Error(), "duration") {
		t.Errorf("error should mention duration, got: %v", err)
	}
}

func TestValidate_TLSRequiresBothFiles(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  tls:
    cert_file: /etc/voxcheck/tls.crt
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for TLS without key file, got nil")
	}
	if !strings.Contains(err.Error(), "key_file") {
		t.Errorf("error should mention key_file, got: %v", err)
	}
}

func TestValidate_EmptyCORSOrigin(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  cors:
    allowed_origins:
      - https://app.example.com
      - ""
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for empty origin, got nil")
	}
	if !strings.Contains(err.Error(), "allowed_origins") {
		t.Errorf("error should mention allowed_origins, got: %v", err)
	}
}

func TestValidate_NegativeLimits(t *testing.T) {
	t.Parallel()
	yaml := `
analysis:
  max_upload_bytes: -1
  max_concurrent: -2
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for negative limits, got nil")
	}
	if !strings.Contains(err.Error(), "max_upload_bytes") {
		t.Errorf("error should mention max_upload_bytes, got: %v", err)
	}
	if !strings.Contains(err.Error(), "max_concurrent") {
		t.Errorf("error should mention max_concurrent, got: %v", err)
	}
}

func TestLogLevel_IsValid(t *testing.T) {
	t.Parallel()
	for _, l := range []config.LogLevel{config.LogDebug, config.LogInfo, config.LogWarn, config.LogError} {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if config.LogLevel("trace").IsValid() {
		t.Error("trace should not be valid")
	}
}
