package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the profile list whenever the images root changes",
	Long: `Watch the images root and reprint the profile list when profiles appear
or disappear, e.g. while an installer is still downloading images.
Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	show := func(profiles []registry.Profile) {
		out := listResp{Root: reg.Root(), ActivePath: activePath(), Profiles: profiles}
		if err := writeList(os.Stdout, out); err != nil {
			slog.Warn("cannot print profiles", "error", err)
		}
		fmt.Println()
	}

	w, err := registry.NewWatcher(reg, slog.Default(), show)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	show(reg.List())
	fmt.Printf("Watching %s for changes...\n", reg.Root())

	<-ctx.Done()
	return w.Stop()
}
