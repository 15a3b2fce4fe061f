package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/spf13/cobra"
)

var addName, addSystem, addVendor string
var addJSON bool

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a profile by linking existing image files",
	Long: `Create <images root>/<name> with symlinks to an existing system.img and
vendor.img. Slashes in the name are replaced with '-'. Images already in
that directory are replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := registry.AddLinked(settings.ImagesRoot, addName, addSystem, addVendor)
		if err != nil {
			return fmt.Errorf("manual add failed: %w", err)
		}
		if addJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"profile": p})
		}
		fmt.Printf("Added profile '%s' and linked images.\n", p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "profile name (required)")
	addCmd.Flags().StringVarP(&addSystem, "system", "s", "", "path to system.img (required)")
	addCmd.Flags().StringVarP(&addVendor, "vendor", "d", "", "path to vendor.img (required)")
	addCmd.Flags().BoolVar(&addJSON, "json", false, "print JSON")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("system")
	_ = addCmd.MarkFlagRequired("vendor")
}
