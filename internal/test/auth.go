package test

import "sync/atomic"

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn   func(string) (string, error)
	VerifyFn func(hash, password string) bool

	// DummyCalls counts VerifyDummy invocations.
	DummyCalls *atomic.Int32
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Verify reports whether hash was produced by Hash for password.
func (h HasherStub) Verify(hash, password string) bool {
	if h.VerifyFn != nil {
		return h.VerifyFn(hash, password)
	}
	return hash == "hash:"+password
}

// VerifyDummy records the call.
func (h HasherStub) VerifyDummy(string) {
	if h.DummyCalls != nil {
		h.DummyCalls.Add(1)
	}
}
