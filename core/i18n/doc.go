// Package i18n provides a flattened, immutable-after-construction
// translation store keyed by "lang:namespace:key", with {{placeholder}}
// substitution, plural-rule selection, and best-fit locale negotiation
// against an Accept-Language header.
//
// An I18n value built with New satisfies response.Localizer directly, so it
// can be handed to command.WithLocalizer and response.OkLocalized/Error
// without an adapter.
package i18n
