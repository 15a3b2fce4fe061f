package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/require"
)

func TestRegistryRefreshReplacesSnapshot(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "one"))

	reg, err := New(root)
	require.NoError(t, err)
	require.Equal(t, []string{"one"}, names(reg.List()))

	require.NoError(t, os.RemoveAll(filepath.Join(root, "one")))
	writeImages(t, filepath.Join(root, "two"))
	require.Equal(t, []string{"one"}, names(reg.List()), "snapshot changes only on refresh")

	require.NoError(t, reg.Refresh())
	require.Equal(t, []string{"two"}, names(reg.List()))
}

func TestRegistryRefreshErrorKeepsSnapshot(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "one"))

	reg, err := New(root)
	require.NoError(t, err)

	// root profile plus a "default" child collides
	writeImages(t, root)
	writeImages(t, filepath.Join(root, "default"))
	require.Error(t, reg.Refresh())
	require.Equal(t, []string{"one"}, names(reg.List()))
}

func TestRegistryListIsCopy(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "one"))
	reg, err := New(root)
	require.NoError(t, err)

	list := reg.List()
	list[0].Name = "mutated"
	require.Equal(t, "one", reg.List()[0].Name)
}

func TestRegistryLookup(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "tv", "a13"))
	reg, err := New(root)
	require.NoError(t, err)

	p, err := reg.Lookup("tv/a13")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "tv", "a13"), p.Location)

	_, err = reg.Lookup("tv")
	require.ErrorIs(t, err, ErrProfileNotFound)
	require.True(t, errdefs.IsNotFound(err))
}

func TestRegistryIndexOfLocation(t *testing.T) {
	root := t.TempDir()
	writeImages(t, filepath.Join(root, "a"))
	writeImages(t, filepath.Join(root, "b"))
	reg, err := New(root)
	require.NoError(t, err)

	require.Equal(t, 1, reg.IndexOfLocation(filepath.Join(root, "b")))
	require.Equal(t, 1, reg.IndexOfLocation(filepath.Join(root, "b")+"/"))
	require.Equal(t, -1, reg.IndexOfLocation("/var/lib/waydroid/images"))
	require.Equal(t, -1, reg.IndexOfLocation(""))
}

func TestRegistryMissingRoot(t *testing.T) {
	reg, err := New(filepath.Join(t.TempDir(), "waydroid-images"))
	require.NoError(t, err)
	require.Empty(t, reg.List())
}
