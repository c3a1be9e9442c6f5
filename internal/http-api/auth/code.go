package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// NewConfirmCode generates a fresh opaque one-time code. The plaintext is
// only ever sent to the user's email; the store keeps the hash.
func NewConfirmCode() string {
	return uuid.New().String()
}

// HashCode creates a bcrypt hash from the given plaintext confirm code.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided plaintext code matches the stored
// bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}

// BurnedCode returns a hash that can never be matched by any code the
// service handed out, used to invalidate a code after it is exchanged for
// a token.
func BurnedCode() (string, error) {
	return HashCode(uuid.New().String())
}
