package output

// Translator renders user-facing messages (push texts, emails, API errors).
type Translator interface {
	// T renders the message identified by key for the given locale, falling
	// back to the default locale. data fills template placeholders and may
	// be nil.
	T(locale, key string, data map[string]any) string
	DefaultLocale() string
	// Match picks the supported locale that best serves an Accept-Language
	// header.
	Match(acceptLanguage string) string
}
