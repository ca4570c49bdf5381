package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"
)

// Hasher signs payloads with HMAC-SHA256 for the HashSHA256 integrity header.
// It keeps a pool of keyed hash instances and is safe for concurrent use.
type Hasher struct {
	pool sync.Pool
}

// NewHasher returns a Hasher keyed with hashKey, or nil when hashKey is
// empty. A nil *Hasher is valid and means integrity signing is disabled.
func NewHasher(hashKey string) *Hasher {
	if hashKey == "" {
		return nil
	}

	key := []byte(hashKey)
	return &Hasher{
		pool: sync.Pool{
			New: func() any {
				return hmac.New(sha256.New, key)
			},
		},
	}
}

// Enabled reports whether h signs payloads.
func (h *Hasher) Enabled() bool {
	return h != nil
}

// Sum returns the hex HMAC-SHA256 of data.
func (h *Hasher) Sum(data []byte) string {
	return hex.EncodeToString(h.sum(data))
}

// Verify reports whether signature is the hex HMAC-SHA256 of data, comparing
// in constant time.
func (h *Hasher) Verify(data []byte, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(h.sum(data), expected)
}

func (h *Hasher) sum(data []byte) []byte {
	mac := h.pool.Get().(hash.Hash)
	mac.Reset()

	mac.Write(data)
	sum := mac.Sum(nil)

	mac.Reset()
	h.pool.Put(mac)

	return sum
}

// HashString computes a one-off hex HMAC-SHA256 of data keyed with hashKey.
func HashString(data string, hashKey string) string {
	mac := hmac.New(sha256.New, []byte(hashKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
