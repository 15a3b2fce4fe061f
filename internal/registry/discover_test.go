package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/require"
)

func writeImages(t *testing.T, dir string, files ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if len(files) == 0 {
		files = []string{SystemImage, VendorImage}
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("img"), 0o644))
	}
}

func names(profiles []Profile) []string {
	out := make([]string, len(profiles))
	for i, p := range profiles {
		out[i] = p.Name
	}
	return out
}

func TestDiscoverDefaultAndNested(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "default"))
	writeImages(t, filepath.Join(root, "tv", "a13"))

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"default", "tv/a13"}, names(profiles))
	require.Equal(t, filepath.Join(root, "default"), profiles[0].Location)
	require.Equal(t, filepath.Join(root, "tv", "a13"), profiles[1].Location)
}

func TestDiscoverRootIsDefault(t *testing.T) {
	root := t.TempDir()
	writeImages(t, root)
	writeImages(t, filepath.Join(root, "lineage"))
	writeImages(t, filepath.Join(root, "lineage", "gapps"))

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"default", "lineage", "lineage/gapps"}, names(profiles))
	require.Equal(t, root, profiles[0].Location)
}

func TestDiscoverSkipsIncompleteDirs(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "only-system"), SystemImage)
	writeImages(t, filepath.Join(root, "only-vendor"), VendorImage)
	writeImages(t, filepath.Join(root, "deep", "er", "ok"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dirs", SystemImage), 0o755))
	writeImages(t, filepath.Join(root, "dirs"), VendorImage)

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"deep/er/ok"}, names(profiles))
}

func TestDiscoverSortsByName(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"zeta", "alpha", "Mid", "alpha/beta"} {
		writeImages(t, filepath.Join(root, n))
	}

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"Mid", "alpha", "alpha/beta", "zeta"}, names(profiles))
}

func TestDiscoverMissingRoot(t *testing.T) {
	profiles, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.NotNil(t, profiles)
	require.Empty(t, profiles)
}

func TestDiscoverIdempotent(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "a"))
	writeImages(t, filepath.Join(root, "b", "c"))

	first, err := Discover(root)
	require.NoError(t, err)
	second, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDiscoverFollowsImageSymlinksNotDirSymlinks(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeImages(t, store)

	linked := filepath.Join(root, "linked")
	require.NoError(t, os.MkdirAll(linked, 0o755))
	require.NoError(t, os.Symlink(filepath.Join(store, SystemImage), filepath.Join(linked, SystemImage)))
	require.NoError(t, os.Symlink(filepath.Join(store, VendorImage), filepath.Join(linked, VendorImage)))

	// a loop back to the root and a link to another profile dir
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))
	require.NoError(t, os.Symlink(store, filepath.Join(root, "elsewhere")))

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Equal(t, []string{"linked"}, names(profiles))
}

func TestDiscoverNameCollision(t *testing.T) {
	root := t.TempDir()
	writeImages(t, root)
	writeImages(t, filepath.Join(root, "default"))

	_, err := Discover(root)
	var collision *CollisionError
	require.True(t, errors.As(err, &collision), "expected CollisionError, got %v", err)
	require.Equal(t, "default", collision.Name)
	require.True(t, errdefs.IsAlreadyExists(err))
}

func TestDiscoverUnreadableSubdir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "ok"))
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.MkdirAll(locked, 0o755))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	profiles, err := Discover(root)
	require.Error(t, err)
	require.Nil(t, profiles)
}

func TestDiscoverReadsMetadata(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "lineage")
	writeImages(t, dir)
	md := "---\ntitle: LineageOS 20\nandroid: \"13\"\nvariant: gapps\n---\n\nNightly from the vendor mirror.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(md), 0o644))

	writeImages(t, filepath.Join(root, "plain"))

	profiles, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	meta := profiles[0].Meta
	require.NotNil(t, meta)
	require.Equal(t, "LineageOS 20", meta.Title)
	require.Equal(t, "13", meta.Android)
	require.Equal(t, "gapps", meta.Variant)
	require.Equal(t, "Nightly from the vendor mirror.", meta.Notes)
	require.Nil(t, profiles[1].Meta)
}

func TestIsProfileDir(t *testing.T) {
	dir := t.TempDir()
	require.False(t, IsProfileDir(dir))
	writeImages(t, dir, SystemImage)
	require.False(t, IsProfileDir(dir))
	writeImages(t, dir, VendorImage)
	require.True(t, IsProfileDir(dir))
	require.False(t, IsProfileDir(filepath.Join(dir, "missing")))
}
