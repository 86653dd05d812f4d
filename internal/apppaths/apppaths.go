// Package apppaths resolves the host's application and user root
// directories and ensures the persisted-state layout they hold, grounded
// on the original implementation's executable-relative path resolution.
package apppaths

import (
	"os"
	"path/filepath"
)

// appSubdirs are created under both the app root and the user root.
var appSubdirs = []string{
	"runtime", "keymaps", "events", "plugins", "help", "autosave", "parsers", "locales",
}

// userOnlySubdirs are created only under the user root.
var userOnlySubdirs = []string{"sessions"}

// Paths holds the resolved application and user roots for one running
// host instance.
type Paths struct {
	// AppRoot is "<install>/.<app>/", next to the running binary.
	AppRoot string
	// UserRoot is "~/.<app>/".
	UserRoot string
}

// Resolve locates AppRoot next to the running executable and UserRoot
// under the current user's home directory, both named ".<app>".
func Resolve(app string) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exeDir, err := filepath.EvalSymlinks(filepath.Dir(exe))
	if err != nil {
		exeDir = filepath.Dir(exe)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}

	dirName := "." + app
	return &Paths{
		AppRoot:  filepath.Join(exeDir, dirName),
		UserRoot: filepath.Join(home, dirName),
	}, nil
}

// EnsureStructure creates every subdirectory the persisted-state layout
// requires under both roots, if missing.
func (p *Paths) EnsureStructure() error {
	for _, sub := range appSubdirs {
		if err := os.MkdirAll(filepath.Join(p.AppRoot, sub), 0o755); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(p.UserRoot, sub), 0o755); err != nil {
			return err
		}
	}
	for _, sub := range userOnlySubdirs {
		if err := os.MkdirAll(filepath.Join(p.UserRoot, sub), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// SessionFile returns the path to the user root's session.json.
func (p *Paths) SessionFile() string {
	return filepath.Join(p.UserRoot, "session.json")
}

// AutosaveDir returns the user root's autosave directory.
func (p *Paths) AutosaveDir() string {
	return filepath.Join(p.UserRoot, "autosave")
}

// KeymapsDir returns the user root's keymaps directory.
func (p *Paths) KeymapsDir() string {
	return filepath.Join(p.UserRoot, "keymaps")
}

// HelpDir returns the user root's help directory.
func (p *Paths) HelpDir() string {
	return filepath.Join(p.UserRoot, "help")
}

// LocalesDir returns the user root's locales directory.
func (p *Paths) LocalesDir() string {
	return filepath.Join(p.UserRoot, "locales")
}

// PluginsDir returns the user root's plugins directory.
func (p *Paths) PluginsDir() string {
	return filepath.Join(p.UserRoot, "plugins")
}
