package response

// Envelope is the uniform response shape shared by the Command Router,
// Binding Surface, and HTTP/WS transports.
type Envelope struct {
	OK      bool           `json:"ok"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta"`
	Error   *ErrorInfo     `json:"error"`
	Message *string        `json:"message"`
}

// ErrorInfo carries a stable code plus an optional translation key and
// substitution params for the caller to render locally if it has its own
// translation catalog.
type ErrorInfo struct {
	Code   string         `json:"code"`
	Key    string         `json:"key,omitempty"`
	Params map[string]any `json:"params,omitempty"`
}

// Localizer resolves a translation key plus params into a human-readable
// string for a given language. core/i18n.Translator satisfies this.
type Localizer interface {
	T(lang, key string, params map[string]any) string
}

func strPtr(s string) *string { return &s }

// Ok builds a success envelope. data and meta may be nil; message is
// attached verbatim (no localization) when non-empty.
func Ok(data any, meta map[string]any, message string) Envelope {
	e := Envelope{OK: true, Data: data, Meta: meta}
	if message != "" {
		e.Message = strPtr(message)
	}
	return e
}

// OkLocalized builds a success envelope whose message is resolved through
// loc for lang/messageKey/params. If loc is nil, messageKey itself flows
// through as the literal message (idempotent localization per spec §8).
func OkLocalized(data any, meta map[string]any, lang, messageKey string, params map[string]any, loc Localizer) Envelope {
	msg := messageKey
	if loc != nil && messageKey != "" {
		msg = loc.T(lang, messageKey, params)
	}
	e := Envelope{OK: true, Data: data, Meta: meta}
	if msg != "" {
		e.Message = strPtr(msg)
	}
	return e
}

// Error builds a failure envelope. code is always required. key and params
// are optional; when loc is non-nil and key is set, Message is resolved
// through it.
func Error(code, key string, params map[string]any, lang string, loc Localizer) Envelope {
	info := &ErrorInfo{Code: code, Key: key, Params: params}
	e := Envelope{OK: false, Error: info}
	if key != "" {
		msg := key
		if loc != nil {
			msg = loc.T(lang, key, params)
		}
		e.Message = strPtr(msg)
	}
	return e
}

// Simple builds a failure envelope with only a code, no translation.
func Simple(code string) Envelope {
	return Envelope{OK: false, Error: &ErrorInfo{Code: code}}
}
