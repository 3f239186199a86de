package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the longest input bcrypt uses; longer passwords are cut to it.
const maxPasswordBytes = 72

const dummyPassword = "restaurant-dummy-password"

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
	// VerifyDummy spends the same work as Verify against a throwaway hash.
	// Callers use it when there is no stored hash to compare with.
	VerifyDummy(password string)
}

// BcryptHasher uses bcrypt to hash passwords.
type BcryptHasher struct {
	cost      int
	dummyHash []byte
}

// NewBcryptHasher creates BcryptHasher with provided cost.
// The dummy hash is computed here so no login pays for it.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	return &BcryptHasher{cost: cost, dummyHash: dummy}
}

// Hash returns bcrypt hash for provided password.
// Only the first 72 bytes of password take part in the hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword(clip(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Verify checks password against stored hash. Malformed hashes never match.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), clip(password)) == nil
}

// VerifyDummy compares password with the hash generated at construction.
func (h *BcryptHasher) VerifyDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, clip(password))
}

func clip(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
