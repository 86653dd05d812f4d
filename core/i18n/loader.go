package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir builds an I18n store from a directory of "<locale>.json" files,
// each holding a flat {key: value} translation map for DefaultNamespace.
// defaultLang selects the fallback language; it need not be present as a
// file for LoadDir to succeed, but T/Tn will only ever resolve against
// languages that were actually loaded.
func LoadDir(root, defaultLang string) (*I18n, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("i18n: reading locale directory %q: %w", root, err)
	}

	var langs []string
	opts := []Option{WithDefaultLanguage(defaultLang)}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: reading %q: %w", entry.Name(), err)
		}

		flat := make(map[string]string)
		if err := json.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("i18n: parsing %q: %w", entry.Name(), err)
		}

		langs = append(langs, lang)
		opts = append(opts, WithTranslations(lang, DefaultNamespace, flat))
	}

	sort.Strings(langs)
	opts = append(opts, WithLanguages(langs...))

	return New(opts...)
}
