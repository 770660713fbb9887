package domain

import "strings"

// Editable field names accepted by field-level updates.
const (
	FieldTitle       = "title"
	FieldDescription = "description"

	// ConfigFieldPrefix addresses a single config key, e.g. "config.amount".
	ConfigFieldPrefix = "config."
)

// ConfigField returns the field name addressing a config key.
func ConfigField(key string) string {
	return ConfigFieldPrefix + key
}

// ConfigKey extracts the config key from a field name.
// ok is false when field does not address config or the key is empty.
func ConfigKey(field string) (key string, ok bool) {
	if !strings.HasPrefix(field, ConfigFieldPrefix) {
		return "", false
	}
	key = strings.TrimPrefix(field, ConfigFieldPrefix)
	return key, key != ""
}
