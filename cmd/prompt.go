package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/gurisko/waydroid-switch/internal/registry"
	"github.com/samber/lo"
)

var runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
	return huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(selected).
		Run()
}

var stdinIsTerminal = func() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && (fi.Mode()&os.ModeCharDevice) != 0
}

// pickProfile asks the user for a profile. profiles[active] is preselected,
// or the first in name order when active is -1.
func pickProfile(profiles []registry.Profile, active int) (registry.Profile, error) {
	if !stdinIsTerminal() {
		return registry.Profile{}, fmt.Errorf("no profile given and stdin is not a terminal")
	}

	options := lo.Map(profiles, func(p registry.Profile, i int) huh.Option[string] {
		label := p.Name
		if i == active {
			label += " (active)"
		}
		if p.Meta != nil && p.Meta.Title != "" {
			label += " - " + p.Meta.Title
		}
		return huh.NewOption(label, p.Name)
	})

	selected := profiles[0].Name
	if active >= 0 && active < len(profiles) {
		selected = profiles[active].Name
	}

	if err := runSelectPrompt("Switch Waydroid to", options, &selected); err != nil {
		return registry.Profile{}, fmt.Errorf("prompt select: %w", err)
	}

	p, ok := lo.Find(profiles, func(p registry.Profile) bool { return p.Name == selected })
	if !ok {
		return registry.Profile{}, fmt.Errorf("%w: %s", registry.ErrProfileNotFound, selected)
	}
	return p, nil
}
