package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ReplacePlaceholders substitutes "{{name}}" occurrences in template with
// values from placeholders. A placeholder with no matching entry is left
// untouched.
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 {
		return template
	}
	result := template
	for key, value := range placeholders {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}
	return result
}

// MatchLocale picks the best-fit supported language for an Accept-Language
// header (or a bare locale string) using BCP 47 matching, falling back to
// the first supported entry when nothing matches well enough.
func MatchLocale(acceptLanguage string, supported []string) string {
	if len(supported) == 0 {
		return ""
	}
	if acceptLanguage == "" {
		return supported[0]
	}

	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	matcher := language.NewMatcher(tags)

	requested, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(requested) == 0 {
		return supported[0]
	}

	_, index, _ := matcher.Match(requested...)
	if index < 0 || index >= len(supported) {
		return supported[0]
	}
	return supported[index]
}
