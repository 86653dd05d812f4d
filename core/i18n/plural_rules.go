package i18n

import "strings"

// PluralRule maps a count to a CLDR plural category.
type PluralRule func(n int) string

// CLDR plural categories. Not every language uses every category.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

// DefaultPluralRule is used for languages without a registered rule.
var DefaultPluralRule PluralRule = func(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case n == 0:
		return PluralZero
	case abs == 1:
		return PluralOne
	default:
		return PluralOther
	}
}

// EnglishPluralRule covers English, German, and most Germanic/Romance
// languages: zero, one, other.
var EnglishPluralRule PluralRule = func(n int) string {
	switch {
	case n == 0:
		return PluralZero
	case n == 1 || n == -1:
		return PluralOne
	default:
		return PluralOther
	}
}

// SlavicPluralRule covers Polish, Ukrainian, Russian, Czech and similar
// languages: one, few, many. It never selects other.
var SlavicPluralRule PluralRule = func(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	mod10, mod100 := abs%10, abs%100

	switch {
	case abs == 1:
		return PluralOne
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return PluralFew
	default:
		return PluralMany
	}
}

// ruleByLanguage maps a small set of well-known language codes to the rule
// that best fits them. Unknown languages fall back to DefaultPluralRule.
var ruleByLanguage = map[string]PluralRule{
	"en": EnglishPluralRule,
	"de": EnglishPluralRule,
	"es": EnglishPluralRule,
	"it": EnglishPluralRule,
	"nl": EnglishPluralRule,
	"pl": SlavicPluralRule,
	"ru": SlavicPluralRule,
	"uk": SlavicPluralRule,
	"cs": SlavicPluralRule,
	"hr": SlavicPluralRule,
}

// GetPluralRuleForLanguage returns the best-known rule for a language code,
// matching on the primary subtag (e.g. "en-US" -> "en").
func GetPluralRuleForLanguage(lang string) PluralRule {
	base := strings.ToLower(lang)
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[:i]
	}
	if rule, ok := ruleByLanguage[base]; ok {
		return rule
	}
	return DefaultPluralRule
}

// fallbackForms lists the categories to try, in order, when the exact
// plural form selected by a rule has no translation.
func fallbackForms(form string) []string {
	switch form {
	case PluralZero:
		return []string{PluralOther}
	case PluralOne:
		return []string{PluralOther}
	case PluralTwo:
		return []string{PluralFew, PluralOther}
	case PluralFew:
		return []string{PluralMany, PluralOther}
	case PluralMany:
		return []string{PluralOther}
	default:
		return nil
	}
}
