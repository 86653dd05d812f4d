package module

import (
	"fmt"

	"github.com/dop251/goja"
)

// LoadAll loads every loose .js/.mjs file under root (init.js/init.mjs
// first, see CollectLooseFiles) as its own module in rt. It stops and
// returns the first error encountered.
func (l *Loader) LoadAll(rt *goja.Runtime, root string, recursive bool) error {
	files, err := CollectLooseFiles(root, recursive)
	if err != nil {
		return fmt.Errorf("module: collecting loose files under %s: %w", root, err)
	}
	for _, f := range files {
		if _, err := l.Load(rt, f); err != nil {
			return err
		}
	}
	return nil
}
