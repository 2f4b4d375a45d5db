// Package password wraps bcrypt hashing for the admin credential.
package password

import "golang.org/x/crypto/bcrypt"

const cost = 12

// Hash hashes a plaintext password with bcrypt.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify reports whether password matches the stored bcrypt hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
