package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// argonConfig is shared so every password in the system is hashed with the
// same cost parameters.
var argonConfig = argon2.DefaultConfig()

// HashPassword returns the encoded argon2id hash of a plaintext password.
// The encoded form embeds salt and parameters, so it is the only value that
// needs storing.
func HashPassword(password string) (string, error) {
	encoded, err := argonConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// VerifyPassword reports whether password matches the stored encoded hash.
func VerifyPassword(encodedHash, password string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
