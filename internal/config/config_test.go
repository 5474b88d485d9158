package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/openimaging/hubsite/internal/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if cfg.BuildDir != "_build" {
		t.Fatalf("unexpected default build dir %q", cfg.BuildDir)
	}
	if cfg.MinPython != "3.6" || cfg.MaxPython != "3.11" {
		t.Fatalf("unexpected default version bounds %q..%q", cfg.MinPython, cfg.MaxPython)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HUBSITE_BUILD_DIR", "/tmp/out")
	t.Setenv("HUBSITE_MAX_PYTHON", "3.12")
	t.Setenv("HUBSITE_WATCH", "true")
	t.Setenv("HUBSITE_DATA", "   ") // blank values are ignored

	cfg := config.Default()
	config.ApplyEnvOverrides(&cfg)

	if cfg.BuildDir != "/tmp/out" {
		t.Fatalf("env build dir not applied: %q", cfg.BuildDir)
	}
	if cfg.MaxPython != "3.12" {
		t.Fatalf("env max python not applied: %q", cfg.MaxPython)
	}
	if !cfg.Watch {
		t.Fatal("env watch not applied")
	}
	if cfg.DataPath != "" {
		t.Fatalf("blank env should be ignored, got %q", cfg.DataPath)
	}
}

func TestApplyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hubsite.yaml")
	yaml := strings.Join([]string{
		"buildDir: /srv/hub",
		"maxPython: \"3.12\"",
		"verbose: true",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := config.Default()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags, &cfg)
	if err := flags.Parse([]string{"--max-python", "3.13"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if err := config.ApplyFile(path, flags, &cfg); err != nil {
		t.Fatalf("ApplyFile returned error: %v", err)
	}

	if cfg.BuildDir != "/srv/hub" {
		t.Fatalf("file should override default, got %q", cfg.BuildDir)
	}
	if !cfg.Verbose {
		t.Fatal("file verbose not applied")
	}
	// The explicit flag beats the file.
	if cfg.MaxPython != "3.13" {
		t.Fatalf("explicit flag should win over file, got %q", cfg.MaxPython)
	}
}

func TestApplyFileErrors(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	if err := config.ApplyFile(filepath.Join(t.TempDir(), "missing.yaml"), nil, &cfg); err == nil {
		t.Fatal("expected error for missing config file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte(":\t not yaml ["), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if err := config.ApplyFile(bad, nil, &cfg); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestFinalize(t *testing.T) {
	t.Parallel()

	t.Run("resolves build dir", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default()
		if err := config.Finalize(&cfg); err != nil {
			t.Fatalf("Finalize returned error: %v", err)
		}
		if !filepath.IsAbs(cfg.BuildDir) {
			t.Fatalf("build dir not absolute: %q", cfg.BuildDir)
		}
	})

	t.Run("rejects malformed version bounds", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{"three.six", "3", "3.6.1"} {
			cfg := config.Default()
			cfg.MinPython = bad
			if err := config.Finalize(&cfg); err == nil {
				t.Fatalf("expected error for min python %q", bad)
			}
		}
	})
}
