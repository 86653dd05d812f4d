package i18n

// M is a convenience alias for placeholder maps passed to T and Tn.
type M map[string]any
