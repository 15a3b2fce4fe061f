// Package config holds the settings of waydroid-switch itself. The
// waydroid configuration it edits lives in package waydroidcfg.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gurisko/waydroid-switch/internal/paths"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// WAYDROID_SWITCH_IMAGES_ROOT.
const EnvPrefix = "WAYDROID_SWITCH"

const (
	KeyImagesRoot     = "images_root"
	KeyWaydroidConfig = "waydroid_config"
	KeyPrivilege      = "privilege_command"
	KeyWaydroid       = "waydroid_command"
	KeySessionEnvFile = "session_env_file"
)

// Settings are the resolved settings for one invocation.
type Settings struct {
	ImagesRoot     string `yaml:"images_root" json:"images_root"`
	WaydroidConfig string `yaml:"waydroid_config" json:"waydroid_config"`
	Privilege      string `yaml:"privilege_command" json:"privilege_command"`
	Waydroid       string `yaml:"waydroid_command" json:"waydroid_command"`
	SessionEnvFile string `yaml:"session_env_file,omitempty" json:"session_env_file,omitempty"`
	// ConfigFile is the settings file that was read, if any.
	ConfigFile string `yaml:"-" json:"-"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyImagesRoot, paths.DefaultImagesRoot())
	v.SetDefault(KeyWaydroidConfig, paths.WaydroidConfig)
	v.SetDefault(KeyPrivilege, "sudo")
	v.SetDefault(KeyWaydroid, "waydroid")
	v.SetDefault(KeySessionEnvFile, "")
}

// Load reads cfgFile (or the default settings file when empty) plus
// environment overrides. A missing default settings file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Settings, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(paths.DefaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	s := &Settings{
		ImagesRoot:     paths.ExpandHome(strings.TrimSpace(v.GetString(KeyImagesRoot))),
		WaydroidConfig: paths.ExpandHome(strings.TrimSpace(v.GetString(KeyWaydroidConfig))),
		Privilege:      strings.TrimSpace(v.GetString(KeyPrivilege)),
		Waydroid:       strings.TrimSpace(v.GetString(KeyWaydroid)),
		SessionEnvFile: paths.ExpandHome(strings.TrimSpace(v.GetString(KeySessionEnvFile))),
		ConfigFile:     v.ConfigFileUsed(),
	}
	if s.ImagesRoot == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyImagesRoot)
	}
	if s.WaydroidConfig == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyWaydroidConfig)
	}
	if s.Waydroid == "" {
		s.Waydroid = "waydroid"
	}
	return s, nil
}

// SessionEnv loads the optional dotenv file of extra variables for the
// session start command.
func (s *Settings) SessionEnv() (map[string]string, error) {
	if s.SessionEnvFile == "" {
		return nil, nil
	}
	env, err := godotenv.Read(s.SessionEnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.SessionEnvFile, err)
	}
	return env, nil
}
