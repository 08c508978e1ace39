package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/adverant/docintel/internal/model"
)

func TestConfigInitWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kreuzberg.yaml")
	configInitForce = false

	if err := runConfigInit(configInitCmd, []string{path}); err != nil {
		t.Fatalf("runConfigInit error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error = %v", err)
	}
	var cfg model.ExtractionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("yaml.Unmarshal error = %v", err)
	}
	want := model.DefaultExtractionConfig()
	if cfg.OutputFormat != want.OutputFormat {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, want.OutputFormat)
	}
}

func TestConfigInitRefusesExistingFileWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kreuzberg.yaml")
	if err := os.WriteFile(path, []byte("stale: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	configInitForce = false

	if err := runConfigInit(configInitCmd, []string{path}); err == nil {
		t.Fatal("runConfigInit error = nil, want error for existing file without --force")
	}

	configInitForce = true
	defer func() { configInitForce = false }()
	if err := runConfigInit(configInitCmd, []string{path}); err != nil {
		t.Fatalf("runConfigInit with --force error = %v", err)
	}
}
