package iam

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances login latency against brute-force resistance.
const bcryptCost = 12

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("iam: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
