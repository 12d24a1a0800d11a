package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
}

func TestLoadJSONCAndPrecedence(t *testing.T) {
	isolate(t)

	globalDir := filepath.Join(os.Getenv("HOME"), ".taskdeck")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "api": {"base_url": "http://global:8000/api", "timeout_ms": 5000},
  "log": {"level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  "api": {"base_url": "http://project:8000/api"}
}`
	if err := os.WriteFile("taskdeck.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	// 项目文件覆盖全局，未覆盖的键保留全局值
	// Project file wins; keys it omits keep the global value.
	if cfg.API.BaseURL != "http://project:8000/api" {
		t.Fatalf("base_url=%q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMS != 5000 {
		t.Fatalf("timeout_ms=%d", cfg.API.TimeoutMS)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level=%q", cfg.Log.Level)
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TASKDECK_BASE_URL", "http://env:9000/api")
	t.Setenv("TASKDECK_TIMEOUT_MS", "2500")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "http://env:9000/api" {
		t.Fatalf("base_url=%q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 2500*time.Millisecond {
		t.Fatalf("timeout=%v", cfg.API.Timeout())
	}
}

func TestInvalidTimeoutEnvRejected(t *testing.T) {
	isolate(t)
	t.Setenv("TASKDECK_TIMEOUT_MS", "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric timeout")
	}
}

func TestNormalizeDefaults(t *testing.T) {
	isolate(t)
	if err := os.WriteFile("taskdeck.config.json", []byte(`{
  "api": {"base_url": "http://x:1/api/", "timeout_ms": -5},
  "log": {"level": "LOUD"}
}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	// 末尾斜杠剥掉，非法值回落默认
	// Trailing slash stripped; invalid values fall back to defaults.
	if cfg.API.BaseURL != "http://x:1/api" {
		t.Fatalf("base_url=%q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutMS != DefaultTimeoutMS {
		t.Fatalf("timeout_ms=%d", cfg.API.TimeoutMS)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log.level=%q", cfg.Log.Level)
	}
}

func TestStoragePaths(t *testing.T) {
	isolate(t)
	t.Setenv("TASKDECK_STORAGE_DIR", filepath.Join(os.Getenv("HOME"), "statehome"))

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(cfg.Storage.DBPath()) != "state.db" {
		t.Fatalf("db path=%q", cfg.Storage.DBPath())
	}
	if filepath.Dir(cfg.Storage.LogPath()) != cfg.Storage.BaseDir {
		t.Fatalf("log path=%q", cfg.Storage.LogPath())
	}
}
