package module

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// CollectLooseFiles walks root collecting .js/.mjs files, optionally
// recursive, sorted lexically by path and then stably partitioned so that
// files literally named init.js or init.mjs sort before everything else.
func CollectLooseFiles(root string, recursive bool) ([]string, error) {
	var files []string

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".js", ".mjs":
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, err
	}

	sort.Strings(files)
	sort.SliceStable(files, func(i, j int) bool {
		return isInitFile(files[i]) && !isInitFile(files[j])
	})

	return files, nil
}

func isInitFile(path string) bool {
	name := filepath.Base(path)
	return name == "init.js" || name == "init.mjs"
}
