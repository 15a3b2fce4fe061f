package registry

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Registry holds the latest discovery snapshot for one scan root.
type Registry struct {
	root     string
	profiles []Profile
	mu       sync.RWMutex
}

// New creates a Registry and performs the initial scan
func New(root string) (*Registry, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	r := &Registry{root: abs}
	if err := r.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to scan profiles: %w", err)
	}
	return r, nil
}

// Root returns the absolute scan root
func (r *Registry) Root() string { return r.root }

// Refresh rescans the root and replaces the snapshot.
// On error the previous snapshot is kept untouched.
func (r *Registry) Refresh() error {
	profiles, err := Discover(r.root)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.profiles = profiles
	r.mu.Unlock()
	return nil
}

// List returns a copy of the snapshot, sorted by name
func (r *Registry) List() []Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Lookup finds a profile by name
func (r *Registry) Lookup(name string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// IndexOfLocation returns the snapshot index of the profile stored at path,
// or -1. Used to preselect the active profile.
func (r *Registry) IndexOfLocation(path string) int {
	if path == "" {
		return -1
	}
	want := filepath.Clean(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, p := range r.profiles {
		if p.Location == want {
			return i
		}
	}
	return -1
}
