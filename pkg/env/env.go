package env

import "os"

// Get returns the value of the given environment variable, or fallback
// when it is unset or empty. Used for the handful of knobs that sit
// outside the envconfig-driven config struct, such as LOG_FORMAT.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
