package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("Expected default listen address, got %q", cfg.Listen)
	}
	if !cfg.GasCheck {
		t.Error("Expected gas check on by default")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Listen != DefaultConfig().Listen {
		t.Errorf("Expected default listen address, got %q", cfg.Listen)
	}
}

func TestLoadConfigManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracelift.toml")
	manifest := `
listen = "0.0.0.0:9090"
allowed_origins = ["https://a.example", "https://b.example"]
gas_check = false
max_instructions = 5000
max_words = 10000
`
	if err := os.WriteFile(path, []byte(manifest), 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Listen != "0.0.0.0:9090" {
		t.Errorf("Expected configured listen address, got %q", cfg.Listen)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("Expected configured origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.GasCheck {
		t.Error("Expected gas check off")
	}

	flat := cfg.FlatConfig()
	if flat.MaxInstructions != 5000 || flat.MaxWords != 10000 {
		t.Errorf("Expected limits carried into generator config, got %+v", flat)
	}
}

func TestLoadConfigBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("listen = [not toml"), 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error for broken manifest")
	}
}

func TestLoadConfigEmptyListenFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracelift.toml")
	if err := os.WriteFile(path, []byte(`gas_check = true`), 0o600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Listen != DefaultConfig().Listen {
		t.Errorf("Expected default listen fallback, got %q", cfg.Listen)
	}
}
