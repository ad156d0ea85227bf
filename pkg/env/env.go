package env

import "os"

// Get returns the variable's value, or fallback when it is unset or blank.
// It covers the knobs below the typed config layer, such as LOG_FORMAT.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
