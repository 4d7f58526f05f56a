package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxInputBytes is bcrypt's own input cap; inputs beyond it are
// silently truncated by the underlying algorithm.
const bcryptMaxInputBytes = 72

type PasswordValidationError struct {
	msg string
}

func (e PasswordValidationError) Error() string { return e.msg }

func IsPasswordValidationError(err error) bool {
	if err == nil {
		return false
	}
	var v PasswordValidationError
	return errors.As(err, &v)
}

// HashClientHash bcrypts the client-supplied passwordHash for at-rest
// storage. The platform never sees a plaintext password — passwordHash
// is already an opaque token the client derived — so this hardens that
// token against a stolen database rather than hashing a password
// directly.
func HashClientHash(clientHash string) (string, error) {
	if clientHash == "" {
		return "", PasswordValidationError{msg: "passwordHash required"}
	}
	if len([]byte(clientHash)) > bcryptMaxInputBytes {
		return "", PasswordValidationError{msg: fmt.Sprintf("passwordHash too long: must be <= %d bytes", bcryptMaxInputBytes)}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(clientHash), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareClientHash checks a login attempt's client-supplied hash
// against the bcrypted value stored at registration.
func CompareClientHash(storedHash, clientHash string) error {
	if clientHash == "" {
		return fmt.Errorf("passwordHash required")
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(clientHash))
}

// FakeHashForTiming is compared against on a login attempt for a
// username that doesn't exist, so "unknown user" and "wrong hash" take
// the same amount of time and don't leak which case occurred.
var FakeHashForTiming = mustHash("lobbyforge-timing-normalization-constant")

func mustHash(s string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}
