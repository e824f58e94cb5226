package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OCR.BaseURL != "http://127.0.0.1:5000" {
		t.Errorf("unexpected default base URL %q", cfg.OCR.BaseURL)
	}
	if cfg.OCR.FieldName != "image" || cfg.OCR.UploadPath != "/upload" {
		t.Errorf("unexpected upload defaults: %+v", cfg.OCR)
	}
	if cfg.UI.CopiedFeedback() != 2*time.Second {
		t.Errorf("copied feedback = %v", cfg.UI.CopiedFeedback())
	}
	if cfg.UI.ArrivalCue() != 1500*time.Millisecond {
		t.Errorf("arrival cue = %v", cfg.UI.ArrivalCue())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_OCR_HOST", "ocr.internal")

		result := ResolveEnvVars("http://${TEST_OCR_HOST}:5000")
		if result != "http://ocr.internal:5000" {
			t.Errorf("expected http://ocr.internal:5000, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
ocr:
  base_url: "http://ocr.example:9000"
server:
  port: 9191
export:
  pdf:
    font_size: 12
`)

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.OCR.BaseURL != "http://ocr.example:9000" {
			t.Errorf("expected file base URL, got %s", cfg.OCR.BaseURL)
		}
		if cfg.Server.Port != "9191" {
			t.Errorf("expected port 9191, got %s", cfg.Server.Port)
		}
		if cfg.Export.PDF.FontSize != 12 {
			t.Errorf("expected font size 12, got %v", cfg.Export.PDF.FontSize)
		}
		// Unset keys keep their defaults.
		if cfg.OCR.FieldName != "image" {
			t.Errorf("expected default field name, got %s", cfg.OCR.FieldName)
		}
		if mgr.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed = %q", mgr.ConfigFileUsed())
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configFile := writeConfig(t, `
ocr:
  base_url: "http://from-file:5000"
`)
		t.Setenv("SCANTEXT_OCR_BASE_URL", "http://from-env:5000")
		t.Setenv("SCANTEXT_UI_ENHANCED", "false")

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.OCR.BaseURL != "http://from-env:5000" {
			t.Errorf("expected env base URL, got %s", cfg.OCR.BaseURL)
		}
		if cfg.UI.Enhanced {
			t.Error("expected ui.enhanced overridden to false")
		}
	})

	t.Run("rejects empty base URL", func(t *testing.T) {
		configFile := writeConfig(t, `
ocr:
  base_url: ""
`)
		_, err := NewManager(configFile)
		if !errors.Is(err, ErrNoOCRURL) {
			t.Errorf("expected ErrNoOCRURL, got %v", err)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"))
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestManager_Override(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "ocr:\n  base_url: http://a:1\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if err := mgr.Override("ocr.base_url", "http://b:2"); err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if got := mgr.Get().OCR.BaseURL; got != "http://b:2" {
		t.Errorf("expected overridden URL, got %s", got)
	}

	if err := mgr.Override("ocr.base_url", ""); !errors.Is(err, ErrNoOCRURL) {
		t.Errorf("expected ErrNoOCRURL, got %v", err)
	}
	if got := mgr.Get().OCR.BaseURL; got != "http://b:2" {
		t.Errorf("failed override changed config: %s", got)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "ui:\n  enhanced: true\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, `
ocr:
  base_url: "http://initial:5000"
`)

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.OCR.BaseURL)
	})

	if !mgr.WatchConfig() {
		t.Fatal("expected WatchConfig to start with a config file")
	}

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	newContent := `
ocr:
  base_url: "http://updated:5000"
`
	if err := os.WriteFile(configFile, []byte(newContent), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if lastValue.Load() == "http://updated:5000" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().OCR.BaseURL; got != "http://updated:5000" {
		t.Errorf("config not updated: got %s", got)
	}
}

func TestWatchConfig_NoFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	mgr, err := NewManager("")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if mgr.WatchConfig() {
		t.Error("expected WatchConfig to report no file")
	}
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written config: %v", err)
	}
	cfg := mgr.Get()
	def := DefaultConfig()
	if *cfg != *def {
		t.Errorf("written config differs from defaults:\n got %+v\nwant %+v", cfg, def)
	}
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SCANTEXT_TEST_DOTENV=loaded\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCANTEXT_TEST_DOTENV", "")
	os.Unsetenv("SCANTEXT_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SCANTEXT_TEST_DOTENV"); got != "loaded" {
		t.Errorf("expected loaded, got %q", got)
	}
}
