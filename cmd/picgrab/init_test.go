package main

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/picgrab/internal/config"
)

// TestNewInitCmd tests the init command flags.
func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()

	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.DefValue != configFileName {
		t.Errorf("expected default %q, got %q", configFileName, flag.DefValue)
	}
	if f := cmd.Flags().Lookup("force"); f == nil || f.Shorthand != "f" {
		t.Error("expected force flag with shorthand 'f'")
	}
}

// TestRunInitCmd tests the init command execution.
func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates config file", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), "nested", configFileName)
		if _, _, err := execute(t, "init", "-o", outputPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		info, err := os.Stat(outputPath)
		if err != nil {
			t.Fatalf("expected config file: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
			t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
		}
	})

	t.Run("fails if file exists without force", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), configFileName)
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		_, _, err := execute(t, "init", "-o", outputPath)
		if err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected 'already exists' error, got %v", err)
		}
	})

	t.Run("overwrites file with force flag", func(t *testing.T) {
		t.Parallel()

		outputPath := filepath.Join(t.TempDir(), configFileName)
		if err := os.WriteFile(outputPath, []byte("existing"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, _, err := execute(t, "init", "-o", outputPath, "-f"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) == "existing" {
			t.Error("expected file to be overwritten")
		}
	})
}

// TestConfigTemplate tests that the template is a loadable configuration
// matching the built-in defaults.
func TestConfigTemplate(t *testing.T) {
	t.Parallel()

	content, err := configTemplate.ReadFile("templates/picgrab.yaml")
	if err != nil {
		t.Fatalf("failed to read template: %v", err)
	}
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatal(err)
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}

	cfg := config.NewConfig()
	if err := file.Apply(cfg); err != nil {
		t.Fatalf("template does not apply: %v", err)
	}
	if !slices.Equal(cfg.Follow, config.DefaultFollow()) {
		t.Errorf("expected default follow, got %v", cfg.Follow)
	}
	if !slices.Equal(cfg.NoFollow, config.DefaultNoFollow()) {
		t.Errorf("expected default no-follow, got %v", cfg.NoFollow)
	}
	if !slices.Equal(cfg.Download, config.DefaultDownload()) {
		t.Errorf("expected default download, got %v", cfg.Download)
	}
	if cfg.Target != config.DefaultTarget || cfg.SaveFrequency != config.DefaultSaveFrequency {
		t.Errorf("unexpected target or save frequency in %+v", cfg)
	}
	if len(cfg.URLs) != 1 {
		t.Errorf("expected one example URL, got %v", cfg.URLs)
	}
}
