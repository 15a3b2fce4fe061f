package registry

import (
	"fmt"

	"github.com/containerd/errdefs"
)

// ErrProfileNotFound indicates no profile with the given name is in the snapshot
var ErrProfileNotFound = fmt.Errorf("profile %w", errdefs.ErrNotFound)

// CollisionError is returned by Discover when two directories derive the
// same profile name. The scan is aborted rather than dropping either one.
type CollisionError struct {
	Name   string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("profile name %q is used by both %s and %s", e.Name, e.First, e.Second)
}

func (e *CollisionError) Unwrap() error { return errdefs.ErrAlreadyExists }
