// internal/app/system/credentials/credentials.go
package credentials

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor for all stored password hashes.
const Cost = 12

// decoyHash is a valid bcrypt hash of a filler value that no caller ever
// submits. When a login names an unknown email, the handler still runs a
// full comparison against this hash so the request costs one bcrypt
// verification either way and response timing does not reveal whether
// the account exists.
var decoyHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("ledgerhub-decoy-credential-filler"), Cost)
	if err != nil {
		panic("credentials: decoy hash generation failed: " + err.Error())
	}
	return string(h)
}()

// DecoyHash returns the fixed decoy hash for timing-uniform verification
// of unknown identities.
func DecoyHash() string { return decoyHash }

// Hash hashes a plaintext password for storage.
func Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether password matches the stored hash. A malformed
// hash is a plain no-match; there is no error surface and no side effect.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
