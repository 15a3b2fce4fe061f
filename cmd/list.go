package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listResp struct {
	Root       string             `json:"root" yaml:"root"`
	ActivePath string             `json:"active_path,omitempty" yaml:"active_path,omitempty"`
	Profiles   []registry.Profile `json:"profiles" yaml:"profiles"`
}

var (
	listJSON bool
	listYAML bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List image profiles",
	Long: `Scan the images root and list every profile, sorted by name.
The active profile (images_path in waydroid.cfg) is marked with '*'.

Examples:
  waydroid-switch list           # Table output
  waydroid-switch list --json    # Output JSON for piping`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output JSON")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "output YAML")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}

func runList(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	out := listResp{Root: reg.Root(), ActivePath: activePath(), Profiles: reg.List()}
	return writeList(os.Stdout, out)
}

func writeList(w io.Writer, out listResp) error {
	switch {
	case listJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case listYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(out.Profiles) == 0 {
		fmt.Fprintf(w, "No image profiles found in %s (need folders with %s and %s)\n",
			out.Root, registry.SystemImage, registry.VendorImage)
		return nil
	}
	return printProfiles(w, out.Profiles, out.ActivePath)
}

func printProfiles(w io.Writer, profiles []registry.Profile, active string) error {
	if active != "" {
		active = filepath.Clean(active)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tNAME\tANDROID\tLOCATION")
	for _, p := range profiles {
		mark := " "
		if p.Location == active {
			mark = "*"
		}
		android := "-"
		if p.Meta != nil && p.Meta.Android != "" {
			android = p.Meta.Android
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, p.Name, android, p.Location)
	}
	return tw.Flush()
}
