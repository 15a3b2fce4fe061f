// Package waydroidcfg reads and rewrites the images_path line of
// waydroid.cfg. The file belongs to waydroid; every other line is kept
// byte for byte.
package waydroidcfg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/gurisko/waydroid-switch/internal/runner"
)

const (
	// KeyPrefix identifies the recognized line.
	KeyPrefix = "images_path ="
	// Key is the bare key name used in error messages.
	Key = "images_path"
)

// ErrKeyNotFound is returned when no line carries the images_path key.
var ErrKeyNotFound = fmt.Errorf("%s %w", Key, errdefs.ErrNotFound)

// ReadActivePath returns the images_path value of the config at path.
// The first matching line wins. A missing file wraps errdefs.ErrNotFound;
// any other read failure is returned as the underlying I/O error.
func ReadActivePath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read %s: %w", path, errdefs.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	v, err := ParseActivePath(string(data))
	if err != nil {
		return "", fmt.Errorf("%w in %s", err, path)
	}
	return v, nil
}

// ParseActivePath extracts the images_path value from config text.
func ParseActivePath(content string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		if v, ok := strings.CutPrefix(line, KeyPrefix); ok {
			return strings.TrimSpace(v), nil
		}
	}
	return "", ErrKeyNotFound
}

// RewriteActivePath replaces the first images_path line of content with
// newPath and returns the result. Nothing else changes, including line
// endings.
func RewriteActivePath(content, newPath string) (string, error) {
	if strings.ContainsAny(newPath, "\r\n") {
		return "", fmt.Errorf("images path contains a line break: %w", errdefs.ErrInvalidArgument)
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, KeyPrefix) {
			continue
		}
		repl := KeyPrefix + " " + newPath
		if strings.HasSuffix(line, "\r") {
			repl += "\r"
		}
		lines[i] = repl
		return strings.Join(lines, "\n"), nil
	}
	return "", ErrKeyNotFound
}

// Store rewrites waydroid.cfg through a privilege helper. The file is
// root-owned, so the new content is piped into "<helper> tee <path>"
// rather than written from this process.
type Store struct {
	Path      string
	Privilege string // e.g. "sudo"; empty runs tee directly
	Runner    runner.Runner
	Logger    *slog.Logger
}

// ReadActivePath reads the current images_path.
func (s *Store) ReadActivePath() (string, error) {
	return ReadActivePath(s.Path)
}

// RewriteCommand builds the privileged write of content to the config.
func (s *Store) RewriteCommand(content string) runner.Command {
	tee := runner.Command{
		Name:  "tee",
		Args:  []string{s.Path},
		Stdin: strings.NewReader(content),
	}
	return runner.Elevate(s.Privilege, tee)
}

// WriteActivePath points images_path at newPath.
func (s *Store) WriteActivePath(ctx context.Context, newPath string) error {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	updated, err := RewriteActivePath(string(data), newPath)
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", s.Path, err)
	}
	if bytes.Equal(data, []byte(updated)) {
		s.logger().Debug("images_path already set", "path", newPath)
	}
	return s.Runner.Run(ctx, s.RewriteCommand(updated))
}

func (s *Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
