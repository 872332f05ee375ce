package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/fusekit/errors"
	"github.com/kbukum/fusekit/stage"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := BaseConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BaseConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", BaseConfig{Name: "svc", Environment: "development"}, false, ""},
		{"valid production", BaseConfig{Name: "svc", Environment: "production"}, false, ""},
		{"missing name", BaseConfig{Environment: "production"}, true, "base.name: is required"},
		{"missing environment", BaseConfig{Name: "svc"}, true, "base.environment: is required"},
		{"invalid environment", BaseConfig{Name: "svc", Environment: "invalid"}, true, "base.environment: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
				if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("expected INVALID_CONFIG, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStreamConfigApplyDefaults(t *testing.T) {
	cfg := StreamConfig{Base: BaseConfig{Name: "etl", Version: "2.0.0"}}
	cfg.ApplyDefaults()

	if cfg.Buffer.Size != DefaultBufferSize {
		t.Errorf("expected buffer size %d, got %d", DefaultBufferSize, cfg.Buffer.Size)
	}
	if cfg.Buffer.Overflow != DefaultBufferOverflow {
		t.Errorf("expected overflow %q, got %q", DefaultBufferOverflow, cfg.Buffer.Overflow)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging level info, got %q", cfg.Logging.Level)
	}
	if cfg.Telemetry.ServiceName != "etl" || cfg.Telemetry.ServiceVersion != "2.0.0" {
		t.Errorf("telemetry should inherit base identity, got %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.Environment != "development" {
		t.Errorf("expected telemetry environment development, got %q", cfg.Telemetry.Environment)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestStreamConfigValidate(t *testing.T) {
	valid := func() StreamConfig {
		cfg := StreamConfig{Base: BaseConfig{Name: "etl"}}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*StreamConfig)
		errMsg string
	}{
		{"zero buffer size", func(c *StreamConfig) { c.Buffer.Size = 0 }, "buffer.size: must be at least 1"},
		{"unknown overflow", func(c *StreamConfig) { c.Buffer.Overflow = "explode" }, "buffer.overflow"},
		{"bad log level", func(c *StreamConfig) { c.Logging.Level = "loud" }, "logging"},
		{"missing name", func(c *StreamConfig) { c.Base.Name = "" }, "base.name"},
		{"bad sample rate", func(c *StreamConfig) { c.Telemetry.SampleRate = 2 }, "telemetry.sample_rate"},
		{"enabled telemetry without endpoint", func(c *StreamConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, "telemetry.endpoint: is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestBufferConfigStrategy(t *testing.T) {
	s, err := BufferConfig{Size: 4, Overflow: "drop_tail"}.Strategy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != stage.DropTail {
		t.Errorf("expected DropTail, got %v", s)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
base:
  name: test-service
  environment: staging
  version: "1.0.0"
buffer:
  size: 64
  overflow: drop-head
telemetry:
  metric_interval: 30s
`)

	var cfg StreamConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Base.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Base.Name)
	}
	if cfg.Base.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Base.Environment)
	}
	if cfg.Buffer.Size != 64 || cfg.Buffer.Overflow != "drop-head" {
		t.Errorf("unexpected buffer config %+v", cfg.Buffer)
	}
	if cfg.Telemetry.MetricInterval.String() != "30s" {
		t.Errorf("expected metric interval 30s, got %v", cfg.Telemetry.MetricInterval)
	}
}

func TestLoadAppliesDefaultsAndValidates(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yml", "base:\n  name: etl\n")
	bad := writeFile(t, dir, "bad.yml", "base:\n  name: etl\nbuffer:\n  overflow: sometimes\n")

	var cfg StreamConfig
	if err := Load("etl", &cfg, WithConfigFile(good), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Buffer.Size != DefaultBufferSize {
		t.Errorf("expected default buffer size, got %d", cfg.Buffer.Size)
	}

	var invalid StreamConfig
	err := Load("etl", &invalid, WithConfigFile(bad), WithEnvFile("/nonexistent/.env"))
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "buffer:\n  size: 8\n")
	t.Setenv("BUFFER_SIZE", "32")

	var cfg StreamConfig
	if err := LoadConfig("etl", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Buffer.Size != 32 {
		t.Errorf("expected env override 32, got %d", cfg.Buffer.Size)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg StreamConfig
	err := LoadConfig("nonexistent-service", &cfg,
		WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/my-svc/config.yml": true,
		".env.my-svc":             true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "./cmd/my-svc/config.yml" {
		t.Errorf("expected config file at ./cmd/my-svc/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env.my-svc" {
		t.Errorf("expected env file .env.my-svc, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPaths(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{}}
	files := resolver.ResolveFiles("svc", LoaderConfig{ConfigFile: "a.yml", EnvFile: "b.env"})
	if files.ConfigFile != "a.yml" || files.EnvFile != "b.env" {
		t.Errorf("explicit paths should win, got %+v", files)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("TELEMETRY_SAMPLE_RATE")
	for _, want := range []string{"telemetry_sample_rate", "telemetry.sample.rate", "telemetry.sample_rate"} {
		found := false
		for _, v := range variants {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, variants)
		}
	}
	if got := generateEnvKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("single-part key should map to itself, got %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem != fs {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" {
		t.Errorf("unexpected loader config %+v", lc)
	}
}
