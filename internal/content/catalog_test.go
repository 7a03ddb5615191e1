package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Reload(t *testing.T) {
	dir := t.TempDir()
	c := NewCatalog(dir, nil)
	assert.Empty(t, c.Sponsors().Gold)
	assert.Empty(t, c.Hotels())

	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.png"), "png")
	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.yaml"), sponsorYAML("a", "a.png", true))
	writeFile(t, filepath.Join(dir, "hotels", "h.yaml"), "name: H\n")

	require.NoError(t, c.Reload())
	assert.Len(t, c.Sponsors().Gold, 1)
	assert.Len(t, c.Hotels(), 1)
}

func TestCatalog_ReloadFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.png"), "png")
	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.yaml"), sponsorYAML("a", "a.png", true))

	c := NewCatalog(dir, nil)
	require.NoError(t, c.Reload())

	// a plain file where the directory should be cannot be listed
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "sponsors")))
	writeFile(t, filepath.Join(dir, "sponsors"), "not a dir")

	assert.Error(t, c.Reload())
	assert.Len(t, c.Sponsors().Gold, 1)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.png"), "png")

	c := NewCatalog(dir, nil)
	require.NoError(t, c.Reload())

	w, err := NewWatcher(c, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, filepath.Join(dir, "sponsors", "gold", "a.yaml"), sponsorYAML("a", "a.png", true))

	assert.Eventually(t, func() bool {
		return len(c.Sponsors().Gold) == 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
