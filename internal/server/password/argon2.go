package password

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const SchemeArgon2id = "argon2id"

// Argon2Hasher derives keys with argon2id. The parameters are fixed per
// instance; stored hashes do not carry them, so changing them invalidates
// existing credentials.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

type Argon2Option func(*Argon2Hasher)

// WithArgon2Params overrides iterations, memory (KiB) and parallelism.
func WithArgon2Params(time, memory uint32, threads uint8) Argon2Option {
	return func(h *Argon2Hasher) {
		h.time = time
		h.memory = memory
		h.threads = threads
	}
}

// NewArgon2Hasher uses time=1, memory=64MiB, threads=4 unless overridden.
func NewArgon2Hasher(opts ...Argon2Option) *Argon2Hasher {
	h := &Argon2Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Argon2Hasher) Scheme() string {
	return SchemeArgon2id
}

func (h *Argon2Hasher) Hash(plaintext string) ([]byte, []byte, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen), salt, nil
}

func (h *Argon2Hasher) Verify(plaintext string, hash, salt []byte) bool {
	if len(salt) == 0 || len(hash) == 0 {
		return false
	}
	candidate := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
