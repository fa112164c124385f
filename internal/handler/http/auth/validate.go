package auth

import (
	"errors"
	"fmt"
	"strings"
)

const (
	minSecretLength   = 32
	minPasswordLength = 12
)

var weakValues = []string{"secret", "password", "admin", "test", "default", "changeme", "123456", "qwerty"}

// ValidateSecret rejects JWT secrets shorter than 256 bits or built from a
// well-known weak value.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if isWeak(secret) {
		return errors.New("JWT_SECRET must not be a common weak value")
	}
	return nil
}

// ValidateAdminCredentials checks the credentials exchanged at /auth/token.
func ValidateAdminCredentials(user, password string) error {
	if user == "" {
		return errors.New("ADMIN_USER must not be empty")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("ADMIN_USER_PASSWORD must be at least %d characters", minPasswordLength)
	}
	if isWeak(password) {
		return errors.New("ADMIN_USER_PASSWORD must not be a common weak value")
	}
	return nil
}

// isWeak reports whether s is a weak value repeated or padded with digits.
func isWeak(s string) bool {
	lower := strings.ToLower(s)
	for _, weak := range weakValues {
		rest := strings.TrimLeft(strings.ReplaceAll(lower, weak, ""), "0123456789")
		if strings.Contains(lower, weak) && rest == "" {
			return true
		}
	}
	return false
}
