package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashServiceInterface abstracts password hashing so services can be tested
// without paying the bcrypt cost.
type HashServiceInterface interface {
	HashPassword(password string) (string, error)
	ComparePassword(hashedPassword, password string) bool
}

// HashService hashes credentials with bcrypt at the default cost.
type HashService struct{}

// HashPassword returns the bcrypt hash of password. An empty password is
// rejected rather than hashed.
func (b *HashService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored bcrypt hash.
func (b *HashService) ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
