package i18n

import (
	"fmt"
	"sort"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// I18n is a flattened, immutable-after-construction translation store. It is
// safe for concurrent reads from multiple goroutines once New returns.
type I18n struct {
	translations map[string]string
	pluralRules  map[string]PluralRule
	defaultLang  string
	languages    []string

	missingKeyHandler func(lang, key string)
}

// Option configures an I18n instance during construction.
type Option func(*I18n) error

// New builds an I18n store from options. Translations loaded via
// WithTranslations are flattened and merged; everything else is immutable
// after New returns.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		pluralRules:  make(map[string]PluralRule),
		defaultLang:  DefaultLang,
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("i18n: %w", err)
		}
	}
	if i.defaultLang == "" {
		return nil, fmt.Errorf("i18n: default language cannot be empty")
	}
	i.languages = i.buildLanguagesList()
	return i, nil
}

// WithDefaultLanguage sets the fallback language used when a requested
// language has no translation for a key.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("default language cannot be empty")
		}
		i.defaultLang = lang
		return nil
	}
}

// WithPluralRule registers a custom plural rule for a language, overriding
// whatever GetPluralRuleForLanguage would otherwise select.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		if rule == nil {
			return fmt.Errorf("plural rule cannot be nil")
		}
		i.pluralRules[lang] = rule
		return nil
	}
}

// WithLanguages declares the supported languages. The default language is
// always included and sorted first; the rest are deduplicated and sorted
// alphabetically.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		if len(langs) == 0 {
			return nil
		}
		set := make(map[string]bool, len(langs))
		for _, l := range langs {
			if l != "" {
				set[l] = true
			}
		}
		delete(set, i.defaultLang)

		ordered := make([]string, 0, len(set))
		for l := range set {
			ordered = append(ordered, l)
		}
		sort.Strings(ordered)

		i.languages = append([]string{i.defaultLang}, ordered...)
		return nil
	}
}

// WithMissingKeyHandler registers a callback invoked whenever T or Tn falls
// through to returning the bare key because no translation was found, in
// either the requested or default language.
func WithMissingKeyHandler(handler func(lang, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// WithTranslations loads a namespace's flat translation map for a language.
// Keys are merged with the rest of that language's translations under a
// "lang:namespace:key" composite key. If the language has no plural rule
// yet, one is chosen automatically via GetPluralRuleForLanguage.
func WithTranslations(lang, namespace string, translations map[string]string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return fmt.Errorf("language cannot be empty")
		}
		if namespace == "" {
			return fmt.Errorf("namespace cannot be empty")
		}
		for key, value := range translations {
			i.translations[buildKey(lang, namespace, key)] = value
		}
		if _, exists := i.pluralRules[lang]; !exists {
			i.pluralRules[lang] = GetPluralRuleForLanguage(lang)
		}
		return nil
	}
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

// DefaultNamespace is the namespace used by T and Tn, which satisfy
// response.Localizer and so carry no namespace argument of their own.
// Callers that load multiple namespaces use TN/TNn directly.
const DefaultNamespace = "app"

// T implements response.Localizer: it resolves key against DefaultNamespace
// for lang. Most callers needing a specific namespace should use TN.
func (i *I18n) T(lang, key string, params map[string]any) string {
	return i.TN(lang, DefaultNamespace, key, M(params))
}

// Tn is the pluralizing counterpart of T, operating on DefaultNamespace.
func (i *I18n) Tn(lang, key string, n int, params map[string]any) string {
	return i.TNn(lang, DefaultNamespace, key, n, M(params))
}

// TN resolves key in namespace for lang, substituting {{name}} placeholders.
// It falls back to the default language's translation, then to the bare key
// (invoking the missing-key handler, if any, on the way).
func (i *I18n) TN(lang, namespace, key string, placeholders ...M) string {
	if tr, ok := i.translations[buildKey(lang, namespace, key)]; ok {
		return ReplacePlaceholders(tr, mergeM(placeholders...))
	}
	if lang != i.defaultLang {
		if tr, ok := i.translations[buildKey(i.defaultLang, namespace, key)]; ok {
			return ReplacePlaceholders(tr, mergeM(placeholders...))
		}
	}
	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}
	return key
}

// TNn resolves a pluralized translation: it picks lang's plural rule
// (falling back to the default language's rule, then DefaultPluralRule),
// forms a "key.form" lookup, and tries fallbackForms(form) before giving up.
func (i *I18n) TNn(lang, namespace, key string, n int, placeholders ...M) string {
	rule, ok := i.pluralRules[lang]
	if !ok {
		if rule, ok = i.pluralRules[i.defaultLang]; !ok {
			rule = DefaultPluralRule
		}
	}
	form := rule(n)

	params := mergeM(placeholders...)
	if params == nil {
		params = M{}
	}
	if _, exists := params["count"]; !exists {
		params["count"] = n
	}

	for _, lookupLang := range []string{lang, i.defaultLang} {
		if tr, found := i.lookupPlural(lookupLang, namespace, key, form); found {
			return ReplacePlaceholders(tr, params)
		}
	}
	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, key)
	}
	return key
}

func (i *I18n) lookupPlural(lang, namespace, key, form string) (string, bool) {
	if tr, ok := i.translations[buildKey(lang, namespace, key+"."+form)]; ok {
		return tr, true
	}
	for _, fallback := range fallbackForms(form) {
		if tr, ok := i.translations[buildKey(lang, namespace, key+"."+fallback)]; ok {
			return tr, true
		}
	}
	return "", false
}

// Languages returns the pre-computed, default-first language list.
func (i *I18n) Languages() []string {
	return i.languages
}

// DefaultLanguage returns the configured fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

func (i *I18n) buildLanguagesList() []string {
	if len(i.languages) > 0 {
		return i.languages
	}
	return []string{i.defaultLang}
}

func mergeM(maps ...M) M {
	if len(maps) == 0 {
		return nil
	}
	out := make(M, len(maps[0]))
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
