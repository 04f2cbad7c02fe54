package utils

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when no account matches, so a failed login
// costs the same whether or not the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether stored looks like a bcrypt hash rather than a
// plaintext password left over from older data.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares password against stored, which is either a bcrypt
// hash or legacy plaintext. Both paths run in constant time.
func CheckPassword(stored, password string) bool {
	if !IsHashed(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// BurnPasswordCheck performs a throwaway comparison of the same cost as CheckPassword.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
