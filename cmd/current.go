package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/gurisko/waydroid-switch/internal/waydroidcfg"
	"github.com/spf13/cobra"
)

var currentJSON bool

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active images path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := waydroidcfg.ReadActivePath(settings.WaydroidConfig)
		if err != nil {
			return err
		}
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		var p registry.Profile
		i := reg.IndexOfLocation(active)
		found := i >= 0
		if found {
			p = reg.List()[i]
		}

		if currentJSON {
			out := map[string]any{"images_path": active}
			if found {
				out["profile"] = p
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		fmt.Printf("Current images_path: %s\n", active)
		if found {
			fmt.Printf("Profile: %s\n", p.Name)
		} else {
			fmt.Printf("Profile: (not below %s)\n", reg.Root())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
	currentCmd.Flags().BoolVar(&currentJSON, "json", false, "output JSON")
}
