// Package cache memoizes computed rankings.
//
// Keys are content addresses of the scoring inputs, so an entry can only be
// served for the exact data it was computed from. Invalidation is never
// required for correctness; TTLs and size bounds only limit memory.
package cache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache stores opaque values by key. Implementations are safe for
// concurrent use. A failed Get is reported as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) {}

// Key builds a content-addressed cache key.
type Key struct {
	prefix string
	d      *xxhash.Digest
}

// NewKey starts a key under prefix, e.g. "ranking:<position id>".
func NewKey(prefix string) *Key {
	return &Key{prefix: prefix, d: xxhash.New()}
}

// Text adds a length-prefixed string so adjacent values cannot collide.
func (k *Key) Text(s string) *Key {
	k.Int(len(s))
	_, _ = k.d.WriteString(s)
	return k
}

// Int adds an integer.
func (k *Key) Int(v int) *Key {
	_, _ = k.d.WriteString(strconv.Itoa(v))
	_, _ = k.d.Write([]byte{0})
	return k
}

// Float adds a float using its shortest exact representation.
func (k *Key) Float(v float64) *Key {
	_, _ = k.d.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	_, _ = k.d.Write([]byte{0})
	return k
}

// Strings adds a list, including its length.
func (k *Key) Strings(ss []string) *Key {
	k.Int(len(ss))
	for _, s := range ss {
		k.Text(s)
	}
	return k
}

// Sum returns prefix:hex(xxhash).
func (k *Key) Sum() string {
	return k.prefix + ":" + strconv.FormatUint(k.d.Sum64(), 16)
}
