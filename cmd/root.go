package cmd

import (
	"log/slog"
	"os"

	"github.com/gurisko/waydroid-switch/internal/config"
	"github.com/gurisko/waydroid-switch/internal/paths"
	"github.com/gurisko/waydroid-switch/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	verbose  bool
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "waydroid-switch",
	Short: "Switch between Waydroid image profiles",
	Long: `waydroid-switch keeps several Waydroid system/vendor image pairs under
~/waydroid-images and switches the active one by rewriting images_path in
waydroid.cfg and restarting the Waydroid session.

A profile is any directory below the images root that contains both
system.img and vendor.img. The root itself is the profile "default".`,
	Version: version.Get().Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		s, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		settings = s
		slog.Debug("settings loaded", "file", s.ConfigFile, "images_root", s.ImagesRoot, "waydroid_config", s.WaydroidConfig)
		return nil
	},
}

func Execute() error {
	// Silence usage and errors to avoid cluttering output with Cobra defaults
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is "+paths.DefaultSettingsPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetVersionTemplate("waydroid-switch {{.Version}}\n")
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
