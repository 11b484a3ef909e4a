// Package crypto implements server-side password hashing and verification.
package crypto

import "golang.org/x/crypto/bcrypt"

// bcryptCost trades login latency for offline brute-force resistance.
const bcryptCost = 12

// dummyHash is a throwaway bcrypt hash computed once at startup. Login
// compares against it when the username is unknown so that unknown-user and
// wrong-password failures cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gameshelf.dummy"), bcryptCost)

// HashPassword returns the bcrypt hash of password. The salt is generated
// per call and embedded in the hash.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
}

// VerifyPassword verifies password against a stored bcrypt hash.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// VerifyDummy burns one bcrypt comparison without revealing anything. Used
// to keep the unknown-username login path as slow as the known-username one.
func VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
