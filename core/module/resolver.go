package module

import (
	"os"
	"path/filepath"
	"strings"
)

// NamespacePrefix is substituted for the configured root when a specifier
// begins with it (e.g. "@ns/bindings.js" -> "<root>/bindings.js").
const NamespacePrefix = "@ns/"

// Resolver resolves import specifiers to canonical filesystem paths.
type Resolver struct {
	// ConfigRoot replaces NamespacePrefix in namespaced specifiers.
	ConfigRoot string
}

// NewResolver builds a Resolver rooted at configRoot.
func NewResolver(configRoot string) *Resolver {
	return &Resolver{ConfigRoot: configRoot}
}

// Resolve resolves specifier as referenced from the module at referrer,
// returning a canonicalized path. If no candidate exists on disk, it
// returns the last probed candidate ("<base>/index.js", not canonicalized) so that
// compilation surfaces a "file not found" error at the right location.
func (r *Resolver) Resolve(specifier, referrer string) (string, error) {
	base := r.baseForSpecifier(specifier, referrer)

	candidates := []string{
		base,
		base + ".mjs",
		base + ".js",
		filepath.Join(base, "index.mjs"),
		filepath.Join(base, "index.js"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			canon, err := canonicalize(candidate)
			if err != nil {
				return candidate, nil
			}
			return canon, nil
		}
	}

	return candidates[len(candidates)-1], nil
}

func (r *Resolver) baseForSpecifier(specifier, referrer string) string {
	if strings.HasPrefix(specifier, NamespacePrefix) {
		rel := strings.TrimPrefix(specifier, NamespacePrefix)
		return filepath.Join(r.ConfigRoot, rel)
	}
	return filepath.Join(filepath.Dir(referrer), specifier)
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file may not exist yet in tests that stat a just-created
		// temp file whose parent directory has a symlinked ancestor;
		// fall back to the absolute, non-symlink-resolved path.
		return abs, nil
	}
	return resolved, nil
}
