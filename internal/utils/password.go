package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword digests a plaintext password with bcrypt at the given
// cost (BCRYPT_COST from the environment; tests pass the minimum to
// stay fast).  The stored User.PasswordHash column only ever holds this
// digest.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt
// digest.  It is deliberately a boolean: login treats a malformed hash
// and a wrong password the same way.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
