package help_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/editor/help"
)

func TestLoadDir_MergesTopicsFromEveryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.json"),
		[]byte(`{"save": "Writes the buffer to disk."}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nav.json"),
		[]byte(`{"goto-line": "Jumps to a line."}`), 0o644))

	s, err := help.LoadDir(dir)
	require.NoError(t, err)

	text, ok := s.Lookup("save")
	require.True(t, ok)
	assert.Contains(t, text, "disk")
	assert.ElementsMatch(t, []string{"save", "goto-line"}, s.List())
}

func TestLookup_UnknownKeyReturnsFalse(t *testing.T) {
	s := help.New()
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}
