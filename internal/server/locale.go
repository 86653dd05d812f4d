package server

import "github.com/opencursor/editorhost/core/i18n"

// resolveLocale picks the best-fit supported language for a request, using
// the explicit "lang" query parameter when present and falling back to
// BCP 47 best-fit matching against the Accept-Language header otherwise.
// Returns "" when store is nil, leaving the Router's static default in
// place.
func resolveLocale(acceptLanguage, langParam string, store *i18n.I18n) string {
	if store == nil {
		return ""
	}
	supported := store.Languages()
	if langParam != "" {
		return i18n.MatchLocale(langParam, supported)
	}
	return i18n.MatchLocale(acceptLanguage, supported)
}
