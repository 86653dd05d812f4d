package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencursor/editorhost/core/i18n"
)

func newStore(t *testing.T) *i18n.I18n {
	t.Helper()
	store, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithLanguages("en", "pl"),
		i18n.WithTranslations("en", i18n.DefaultNamespace, map[string]string{
			"greeting":      "Hello, {{name}}!",
			"item.one":      "{{count}} item",
			"item.other":    "{{count}} items",
			"untranslated":  "only in en",
		}),
		i18n.WithTranslations("pl", i18n.DefaultNamespace, map[string]string{
			"greeting": "Cześć, {{name}}!",
		}),
	)
	require.NoError(t, err)
	return store
}

func TestI18n_T_ResolvesAndSubstitutesPlaceholders(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	assert.Equal(t, "Hello, Ada!", store.T("en", "greeting", map[string]any{"name": "Ada"}))
	assert.Equal(t, "Cześć, Ada!", store.T("pl", "greeting", map[string]any{"name": "Ada"}))
}

func TestI18n_T_FallsBackToDefaultLanguage(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	assert.Equal(t, "only in en", store.T("pl", "untranslated", nil))
}

func TestI18n_T_ReturnsKeyWhenNowhereFound(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	assert.Equal(t, "nope.missing", store.T("en", "nope.missing", nil))
}

func TestI18n_T_InvokesMissingKeyHandler(t *testing.T) {
	t.Parallel()

	var gotLang, gotKey string
	store, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithMissingKeyHandler(func(lang, key string) {
			gotLang, gotKey = lang, key
		}),
	)
	require.NoError(t, err)

	store.T("fr", "absent", nil)
	assert.Equal(t, "fr", gotLang)
	assert.Equal(t, "absent", gotKey)
}

func TestI18n_Tn_SelectsPluralForm(t *testing.T) {
	t.Parallel()
	store := newStore(t)

	assert.Equal(t, "1 item", store.Tn("en", "item", 1, nil))
	assert.Equal(t, "3 items", store.Tn("en", "item", 3, nil))
}

func TestI18n_Languages_DefaultFirstThenSortedAlphabetically(t *testing.T) {
	t.Parallel()
	store, err := i18n.New(i18n.WithDefaultLanguage("en"), i18n.WithLanguages("pl", "de", "en"))
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "de", "pl"}, store.Languages())
}

func TestI18n_New_RejectsEmptyDefaultLanguage(t *testing.T) {
	t.Parallel()
	_, err := i18n.New(i18n.WithDefaultLanguage(""))
	assert.Error(t, err)
}

func TestTranslator_BindsLanguageAndNamespace(t *testing.T) {
	t.Parallel()
	store := newStore(t)
	tr := i18n.NewTranslator(store, "pl", "")

	assert.Equal(t, "pl", tr.Language())
	assert.Equal(t, i18n.DefaultNamespace, tr.Namespace())
	assert.Equal(t, "Cześć, Basia!", tr.T("greeting", i18n.M{"name": "Basia"}))
}

func TestReplacePlaceholders_LeavesUnmatchedPlaceholdersUntouched(t *testing.T) {
	t.Parallel()
	out := i18n.ReplacePlaceholders("{{a}} and {{b}}", i18n.M{"a": "x"})
	assert.Equal(t, "x and {{b}}", out)
}

func TestMatchLocale_PicksBestFitOrFirstSupported(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "en", i18n.MatchLocale("", []string{"en", "pl"}))
	assert.Equal(t, "pl", i18n.MatchLocale("pl-PL,pl;q=0.9,en;q=0.1", []string{"en", "pl"}))
}
