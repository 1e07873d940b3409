// Package auth implements password hashing and bearer-token
// issuance/verification for the drivebox API.
package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed: slow enough against offline brute force,
// bounded for interactive login latency.
const bcryptCost = 12

// HashPassword derives a one-way bcrypt hash from the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored
// hash. Callers must answer unknown-account and wrong-password with
// the same error so the two cases are indistinguishable.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
