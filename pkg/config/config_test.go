package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_NAME", "docs")
	path := writeConfig(t, "name: ${TEST_CONFIG_NAME}\nport: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "docs" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeConfig(t, "name: x\nport: 0\n")
	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	cfg := testConfig{Name: "default", Port: 8080}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
	if cfg.Name != "default" || cfg.Port != 8080 {
		t.Errorf("defaults changed: %+v", cfg)
	}
}

func TestLoadOptional_MissingStillValidates(t *testing.T) {
	var cfg testConfig
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("invalid defaults should fail validation")
	}
}

func TestLoadOptional_Present(t *testing.T) {
	path := writeConfig(t, "port: 9090\n")
	cfg := testConfig{Name: "default", Port: 8080}
	found, err := LoadOptional(path, &cfg)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if !found || cfg.Port != 9090 || cfg.Name != "default" {
		t.Errorf("found=%v cfg=%+v", found, cfg)
	}
}
