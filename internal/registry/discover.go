package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
)

// IsProfileDir reports whether dir directly contains both required images.
// Symlinked image files count, symlinks to directories do not.
func IsProfileDir(dir string) bool {
	return isRegular(filepath.Join(dir, SystemImage)) && isRegular(filepath.Join(dir, VendorImage))
}

func isRegular(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Discover scans root at any depth and returns every profile directory,
// sorted by name. A missing root is an empty result. Directory symlinks
// below root are not followed, so a looping link cannot hang the scan.
func Discover(root string) ([]Profile, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Profile{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}

	found := make(map[string]Profile)
	if err := scanDir(abs, abs, found); err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(found))
	for _, p := range found {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

func scanDir(dir, root string, out map[string]Profile) error {
	if IsProfileDir(dir) {
		name := profileName(root, dir)
		if prev, ok := out[name]; ok {
			return &CollisionError{Name: name, First: prev.Location, Second: dir}
		}
		out[name] = Profile{Name: name, Location: dir, Meta: readMetadata(dir)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed reading %s: %w", dir, err)
	}
	for _, e := range entries {
		// DirEntry of a symlink never reports IsDir
		if !e.IsDir() {
			continue
		}
		if err := scanDir(filepath.Join(dir, e.Name()), root, out); err != nil {
			return err
		}
	}
	return nil
}

func profileName(root, dir string) string {
	if dir == root {
		return DefaultName
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// readMetadata never fails the scan; a broken profile.md only loses its
// metadata.
func readMetadata(dir string) *Metadata {
	path := filepath.Join(dir, MetadataFile)
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cannot open profile metadata", "path", path, "error", err)
		}
		return nil
	}
	defer f.Close()

	var meta Metadata
	body, err := frontmatter.Parse(f, &meta)
	if err != nil {
		slog.Warn("ignoring malformed profile metadata", "path", path, "error", err)
		return nil
	}
	meta.Notes = strings.TrimSpace(string(body))
	return &meta
}
