package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// WaydroidConfig is where waydroid keeps its session configuration.
const WaydroidConfig = "/var/lib/waydroid/waydroid.cfg"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

func DefaultConfigDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "waydroid-switch")
	}
	return filepath.Join(home(), ".config", "waydroid-switch")
}

func DefaultImagesRoot() string   { return filepath.Join(home(), "waydroid-images") }
func DefaultSettingsPath() string { return filepath.Join(DefaultConfigDir(), "config.yaml") }

// ExpandHome turns a leading "~" into the user's home directory.
func ExpandHome(p string) string {
	if p == "~" {
		return home()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home(), p[2:])
	}
	return p
}
