package apppaths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/internal/apppaths"
)

func TestResolve_DerivesDotPrefixedRootsFromApp(t *testing.T) {
	p, err := apppaths.Resolve("edithostd")
	require.NoError(t, err)
	assert.Equal(t, ".edithostd", filepath.Base(p.AppRoot))
	assert.Equal(t, ".edithostd", filepath.Base(p.UserRoot))
}

func TestEnsureStructure_CreatesFullLayout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := &apppaths.Paths{AppRoot: filepath.Join(t.TempDir(), ".app"), UserRoot: filepath.Join(home, ".app")}
	require.NoError(t, p.EnsureStructure())

	for _, sub := range []string{"runtime", "keymaps", "events", "plugins", "help", "autosave", "parsers", "locales", "sessions"} {
		_, err := os.Stat(filepath.Join(p.UserRoot, sub))
		assert.NoError(t, err, "missing user subdir %q", sub)
	}
	for _, sub := range []string{"runtime", "keymaps", "locales"} {
		_, err := os.Stat(filepath.Join(p.AppRoot, sub))
		assert.NoError(t, err, "missing app subdir %q", sub)
	}

	_, err := os.Stat(filepath.Join(p.AppRoot, "sessions"))
	assert.True(t, os.IsNotExist(err), "sessions must only exist under the user root")
}

func TestSessionFileAndAutosaveDir_AreUnderUserRoot(t *testing.T) {
	p := &apppaths.Paths{UserRoot: "/home/u/.app"}
	assert.Equal(t, "/home/u/.app/session.json", p.SessionFile())
	assert.Equal(t, "/home/u/.app/autosave", p.AutosaveDir())
}
