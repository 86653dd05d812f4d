package i18n

// Translator is a fixed-language, fixed-namespace view over an I18n store,
// convenient for a request or session that has already resolved a locale.
type Translator struct {
	i18n      *I18n
	language  string
	namespace string
}

// NewTranslator binds i18n to a language and namespace. An empty language
// falls back to i18n's default language.
func NewTranslator(i *I18n, language, namespace string) *Translator {
	if i == nil {
		panic("i18n: translator requires a non-nil store")
	}
	if language == "" {
		language = i.DefaultLanguage()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Translator{i18n: i, language: language, namespace: namespace}
}

// T resolves key within the translator's bound language and namespace.
func (t *Translator) T(key string, placeholders ...M) string {
	return t.i18n.TN(t.language, t.namespace, key, placeholders...)
}

// Tn is the pluralizing counterpart of T.
func (t *Translator) Tn(key string, n int, placeholders ...M) string {
	return t.i18n.TNn(t.language, t.namespace, key, n, placeholders...)
}

// Language returns the translator's bound language.
func (t *Translator) Language() string { return t.language }

// Namespace returns the translator's bound namespace.
func (t *Translator) Namespace() string { return t.namespace }
