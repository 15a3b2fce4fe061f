package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/gurisko/waydroid-switch/internal/switcher"
	"github.com/spf13/cobra"
)

var (
	switchPath string
	switchYes  bool
)

var switchCmd = &cobra.Command{
	Use:   "switch [profile]",
	Short: "Make a profile active and restart the Waydroid session",
	Long: `Stop the Waydroid session and container, point images_path in waydroid.cfg
at the chosen profile and start the session again.

Stopping is best effort: a session that is not running is not an error.
If the session fails to start, waydroid.cfg keeps the new images_path.

Examples:
  waydroid-switch switch                  # Pick interactively
  waydroid-switch switch tv/a13           # By profile name
  waydroid-switch switch --path /srv/img  # Any directory with both images`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().StringVar(&switchPath, "path", "", "switch to this directory instead of a named profile")
	switchCmd.Flags().BoolVarP(&switchYes, "yes", "y", false, "do not ask for confirmation")
}

func runSwitch(cmd *cobra.Command, args []string) error {
	target, err := resolveTarget(args)
	if err != nil {
		return err
	}

	// an interactive pick already is the confirmation
	named := len(args) > 0 || switchPath != ""
	if named && !switchYes && stdinIsTerminal() {
		if !confirm(fmt.Sprintf("Switch to '%s'? This restarts the Waydroid session. [y/N]: ", target.Name)) {
			fmt.Println("aborted")
			return nil
		}
	}

	o, err := newOrchestrator(func(s switcher.State) {
		switch s {
		case switcher.StateSucceeded, switcher.StateFailed:
		default:
			fmt.Printf("  %s...\n", s)
		}
	})
	if err != nil {
		return err
	}

	fmt.Printf("Switching to '%s'...\n", target.Name)
	report, err := o.Switch(cmd.Context(), target.Location)
	if report != nil {
		for _, w := range report.Warnings() {
			fmt.Printf("  warning: %v\n", w)
		}
	}
	if err != nil {
		return fmt.Errorf("switch failed: %w", err)
	}
	fmt.Printf("Switched to '%s'.\n", target.Name)
	return nil
}

func resolveTarget(args []string) (registry.Profile, error) {
	if switchPath != "" {
		if len(args) > 0 {
			return registry.Profile{}, fmt.Errorf("give either a profile name or --path, not both")
		}
		return registry.Profile{Name: switchPath, Location: switchPath}, nil
	}

	reg, err := openRegistry()
	if err != nil {
		return registry.Profile{}, err
	}
	profiles := reg.List()
	if len(profiles) == 0 {
		return registry.Profile{}, emptyRegistryError()
	}
	if len(args) == 1 {
		return reg.Lookup(strings.TrimSpace(args[0]))
	}
	return pickProfile(profiles, reg.IndexOfLocation(activePath()))
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	ans, _ := reader.ReadString('\n')
	ans = strings.ToLower(strings.TrimSpace(ans))
	return ans == "y" || ans == "yes"
}
