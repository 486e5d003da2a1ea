package envconfig

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// LoadDotenv populates the process environment from the given .env files (default ".env").
// Missing files are ignored and variables already set in the environment win.
func LoadDotenv(files ...string) {
	_ = godotenv.Load(files...)
}

// Get returns the value of the requested environment variable or the supplied fallback when empty.
func Get(name string, fallback string) string {
	if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

// Validate validates a struct using validator tags.
func Validate(v any) error {
	return validate.Struct(v)
}
