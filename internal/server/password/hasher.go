// Package password derives and verifies salted password hashes.
//
// New credentials are produced by the primary Hasher of a Set; existing
// credentials are verified by whichever Hasher matches the scheme recorded
// next to them.
package password

import (
	"errors"
	"fmt"
)

// ErrUnknownScheme is returned by Set.Lookup for schemes it does not hold.
var ErrUnknownScheme = errors.New("unknown password scheme")

// Hasher derives a (hash, salt) pair from a plaintext password and checks a
// plaintext password against a stored pair.
//
// Verify reports a mismatch as false, never as an error, and compares in
// constant time.
type Hasher interface {
	Scheme() string
	Hash(plaintext string) (hash, salt []byte, err error)
	Verify(plaintext string, hash, salt []byte) bool
}

// Set is the collection of hashers a deployment accepts.
type Set struct {
	primary Hasher
	byName  map[string]Hasher
}

// NewSet returns a Set that hashes with primary and can verify credentials
// produced by primary or any of others.
func NewSet(primary Hasher, others ...Hasher) *Set {
	s := &Set{primary: primary, byName: map[string]Hasher{primary.Scheme(): primary}}
	for _, h := range others {
		if _, ok := s.byName[h.Scheme()]; !ok {
			s.byName[h.Scheme()] = h
		}
	}
	return s
}

// DefaultSet hashes with the named scheme and verifies every built-in scheme.
func DefaultSet(scheme string) (*Set, error) {
	hmacHasher := NewHMACHasher()
	argonHasher := NewArgon2Hasher()

	switch scheme {
	case "", SchemeHMACSHA512:
		return NewSet(hmacHasher, argonHasher), nil
	case SchemeArgon2id:
		return NewSet(argonHasher, hmacHasher), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// Primary returns the hasher used for new credentials.
func (s *Set) Primary() Hasher {
	return s.primary
}

// Lookup returns the hasher for scheme. An empty scheme means the primary
// hasher's scheme.
func (s *Set) Lookup(scheme string) (Hasher, error) {
	if scheme == "" {
		return s.primary, nil
	}
	h, ok := s.byName[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	return h, nil
}
