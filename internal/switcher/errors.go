package switcher

import (
	"errors"

	"github.com/containerd/errdefs"
)

var (
	// ErrMissingImages indicates the target directory is not a valid profile
	ErrMissingImages = errors.New("missing system.img/vendor.img")
	// ErrSwitchInProgress is returned when Switch is entered while another attempt runs
	ErrSwitchInProgress = errors.New("switch already in progress")
)

// MissingImagesError reports a target that failed re-validation. It matches
// both ErrMissingImages and errdefs.ErrInvalidArgument.
type MissingImagesError struct {
	Location string
}

func (e *MissingImagesError) Error() string {
	return e.Location + " " + ErrMissingImages.Error()
}

func (e *MissingImagesError) Is(target error) bool {
	return target == ErrMissingImages || target == errdefs.ErrInvalidArgument
}
