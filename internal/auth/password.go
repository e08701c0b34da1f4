package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned when a plaintext does not match a stored hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// placeholderHash is compared against when the account does not exist, so unknown
// usernames cost the same bcrypt work as wrong passwords.
var placeholderHash, _ = bcrypt.GenerateFromPassword(prehash("placeholder-password"), bcrypt.DefaultCost)

// prehash digests the password before bcrypt, which only reads the first 72 bytes
// and rejects longer input. The base64 digest is 44 bytes for any password.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), prehash(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

// BurnComparison performs a throwaway comparison for a missing account.
func BurnComparison(plain string) {
	_ = bcrypt.CompareHashAndPassword(placeholderHash, prehash(plain))
}
