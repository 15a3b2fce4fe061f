package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
	securejoin "github.com/cyphar/filepath-securejoin"
)

// SanitizeName flattens a user supplied name into one path element.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	return strings.NewReplacer("/", "-", `\`, "-").Replace(name)
}

// AddLinked creates root/<name> holding symlinks to existing image files
// and returns the resulting profile. Existing images in that directory are
// replaced.
func AddLinked(root, name, systemSrc, vendorSrc string) (Profile, error) {
	name = SanitizeName(name)
	systemSrc = strings.TrimSpace(systemSrc)
	vendorSrc = strings.TrimSpace(vendorSrc)

	if name == "" || systemSrc == "" || vendorSrc == "" {
		return Profile{}, fmt.Errorf("all fields are required: %w", errdefs.ErrInvalidArgument)
	}
	if name == "." || name == ".." {
		return Profile{}, fmt.Errorf("reserved profile name %q: %w", name, errdefs.ErrInvalidArgument)
	}
	if !isRegular(systemSrc) {
		return Profile{}, fmt.Errorf("system image not found: %s: %w", systemSrc, errdefs.ErrInvalidArgument)
	}
	if !isRegular(vendorSrc) {
		return Profile{}, fmt.Errorf("vendor image not found: %s: %w", vendorSrc, errdefs.ErrInvalidArgument)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Profile{}, fmt.Errorf("resolve %s: %w", root, err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return Profile{}, fmt.Errorf("failed to create %s: %w", absRoot, err)
	}
	dir, err := securejoin.SecureJoin(absRoot, name)
	if err != nil {
		return Profile{}, fmt.Errorf("resolve profile dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Profile{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	links := []struct{ src, dst string }{
		{systemSrc, filepath.Join(dir, SystemImage)},
		{vendorSrc, filepath.Join(dir, VendorImage)},
	}
	for _, l := range links {
		target, err := canonical(l.src)
		if err != nil {
			return Profile{}, err
		}
		if err := os.Remove(l.dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fmt.Errorf("failed removing %s: %w", l.dst, err)
		}
		if err := os.Symlink(target, l.dst); err != nil {
			return Profile{}, fmt.Errorf("failed creating symlink %s: %w", l.dst, err)
		}
	}

	return Profile{Name: profileName(absRoot, dir), Location: dir, Meta: readMetadata(dir)}, nil
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return real, nil
}
