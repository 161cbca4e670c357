package family

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ValidatePIN checks the admin PIN format: exactly four digits.
func ValidatePIN(pin string) error {
	if len(pin) != 4 || !isDigits(pin) {
		return fmt.Errorf("%w: PIN must be exactly 4 digits", ErrValidation)
	}
	return nil
}

func hashPIN(pin string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("hash PIN: %w", err)
	}
	return string(hash), nil
}

func checkPIN(hash, pin string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidPIN
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
