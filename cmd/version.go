package cmd

import (
	"fmt"

	"github.com/gurisko/waydroid-switch/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of waydroid-switch",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("waydroid-switch %s\n", version.Get().Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
