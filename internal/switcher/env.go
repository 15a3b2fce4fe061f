package switcher

import (
	"os"
	"sort"
)

const (
	// BusAddressVar must be set for "waydroid session start" to reach the
	// desktop session bus.
	BusAddressVar = "DBUS_SESSION_BUS_ADDRESS"
	// RuntimeDirVar is used to derive a bus address when none is set.
	RuntimeDirVar = "XDG_RUNTIME_DIR"
)

// Environment is read-only access to environment variables.
type Environment interface {
	Lookup(key string) (string, bool)
}

// ProcessEnv reads the real process environment.
type ProcessEnv struct{}

func (ProcessEnv) Lookup(key string) (string, bool) { return os.LookupEnv(key) }

// MapEnv is an in-memory Environment.
type MapEnv map[string]string

func (m MapEnv) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

type layered struct {
	top  MapEnv
	base Environment
}

func (l layered) Lookup(key string) (string, bool) {
	if v, ok := l.top[key]; ok {
		return v, true
	}
	return l.base.Lookup(key)
}

// SessionOverlay returns the variables to add for the session start
// command. Extra variables are only used when env lacks them. If no bus
// address is known afterwards, one is derived from XDG_RUNTIME_DIR.
func SessionOverlay(env Environment, extra map[string]string) MapEnv {
	overlay := MapEnv{}
	for k, v := range extra {
		if _, ok := env.Lookup(k); !ok {
			overlay[k] = v
		}
	}

	view := layered{top: overlay, base: env}
	if _, ok := view.Lookup(BusAddressVar); !ok {
		if xdg, ok := view.Lookup(RuntimeDirVar); ok {
			overlay[BusAddressVar] = "unix:path=" + xdg + "/bus"
		}
	}
	return overlay
}

// Entries renders the map as sorted KEY=VALUE pairs.
func (m MapEnv) Entries() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}
