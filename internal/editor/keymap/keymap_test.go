package keymap_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/editor/keymap"
)

func TestManager_BindResolveUnbind(t *testing.T) {
	m := keymap.New()
	m.Bind("ctrl+s", "file.save", nil)

	b, ok := m.Resolve("ctrl+s")
	require.True(t, ok)
	assert.Equal(t, "file.save", b.Command)

	assert.True(t, m.Unbind("ctrl+s"))
	_, ok = m.Resolve("ctrl+s")
	assert.False(t, ok)
}

func TestLoadDir_MergesEveryJSONFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.json"),
		[]byte(`{"ctrl+s": {"command": "file.save"}, "ctrl+q": {"command": "app.quit"}}`), 0o644))

	m, err := keymap.LoadDir(dir)
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, "ctrl+q", list[0].Chord)
}

func TestLoadDir_MissingDirReturnsEmptyManager(t *testing.T) {
	m, err := keymap.LoadDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, m.List())
}
