package output

// T exposes a minimal i18n contract for user-facing messages.
type T interface {
	// T renders the message identified by key for the given locale.
	// locale may be an Accept-Language value; data is optional template input.
	T(locale, key string, data map[string]any) string
}
