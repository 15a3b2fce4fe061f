package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ImagesRoot != "/home/tester/waydroid-images" {
		t.Errorf("Expected default images root, got %q", s.ImagesRoot)
	}
	if s.WaydroidConfig != "/var/lib/waydroid/waydroid.cfg" {
		t.Errorf("Expected default waydroid config, got %q", s.WaydroidConfig)
	}
	if s.Privilege != "sudo" {
		t.Errorf("Expected privilege 'sudo', got %q", s.Privilege)
	}
	if s.Waydroid != "waydroid" {
		t.Errorf("Expected waydroid command 'waydroid', got %q", s.Waydroid)
	}
	if s.ConfigFile != "" {
		t.Errorf("Expected no settings file, got %q", s.ConfigFile)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := writeFile(t, "config.yaml", `images_root: ~/imgs
privilege_command: ""
waydroid_command: /usr/local/bin/waydroid
`)
	t.Setenv("WAYDROID_SWITCH_WAYDROID_CONFIG", "/tmp/waydroid.cfg")

	s, err := Load(viper.New(), cfg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.ImagesRoot != "/home/tester/imgs" {
		t.Errorf("Expected expanded images root, got %q", s.ImagesRoot)
	}
	if s.Privilege != "" {
		t.Errorf("Expected privilege helper disabled, got %q", s.Privilege)
	}
	if s.Waydroid != "/usr/local/bin/waydroid" {
		t.Errorf("Expected custom waydroid, got %q", s.Waydroid)
	}
	if s.WaydroidConfig != "/tmp/waydroid.cfg" {
		t.Errorf("Expected env override, got %q", s.WaydroidConfig)
	}
	if s.ConfigFile != cfg {
		t.Errorf("Expected config file %q, got %q", cfg, s.ConfigFile)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit settings file")
	}
}

func TestSessionEnv(t *testing.T) {
	s := &Settings{}
	env, err := s.SessionEnv()
	if err != nil || env != nil {
		t.Fatalf("Expected nil env without file, got %v, %v", env, err)
	}

	s.SessionEnvFile = writeFile(t, "session.env", "# waydroid session\nWAYLAND_DISPLAY=wayland-1\nXDG_RUNTIME_DIR=/run/user/1000\n")
	env, err = s.SessionEnv()
	if err != nil {
		t.Fatalf("SessionEnv failed: %v", err)
	}
	if env["WAYLAND_DISPLAY"] != "wayland-1" || env["XDG_RUNTIME_DIR"] != "/run/user/1000" {
		t.Errorf("Unexpected env: %v", env)
	}

	s.SessionEnvFile = filepath.Join(t.TempDir(), "missing.env")
	if _, err := s.SessionEnv(); err == nil {
		t.Error("Expected error for missing env file")
	}
}
