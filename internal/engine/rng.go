// Package engine provides the random primitives secrets are built from: a
// uniform integer source over any byte stream, a seeded HMAC-SHA256 stream for
// reproducible test vectors, and an in-place Fisher-Yates shuffle.
package engine

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
)

// ErrInvalidBound is returned when Intn is asked for a non-positive range.
var ErrInvalidBound = errors.New("engine: bound must be positive")

// Source draws uniformly distributed integers from an underlying byte stream.
// It is safe for concurrent use; reads are serialised so interleaved callers
// never share a partially consumed word.
type Source struct {
	mu  sync.Mutex
	r   io.Reader
	buf [8]byte
}

var defaultSource = NewSource(rand.Reader)

// NewSource wraps r. Use crypto/rand.Reader (or Default) for real secrets.
func NewSource(r io.Reader) *Source {
	return &Source{r: r}
}

// Default returns the process-wide source backed by crypto/rand.
func Default() *Source {
	return defaultSource
}

// Uint64 reads the next 8 bytes of the stream as a big-endian word.
func (s *Source) Uint64() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, fmt.Errorf("engine: read random bytes: %w", err)
	}
	return binary.BigEndian.Uint64(s.buf[:]), nil
}

// Intn returns a uniform integer in [0, n).
//
// Words falling in the incomplete top bucket of the 64-bit range are rejected
// and redrawn, so every result is exactly equally likely.
func (s *Source) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBound, n)
	}
	un := uint64(n)
	// 2^64 mod n
	rem := (math.MaxUint64%un + 1) % un

	for {
		v, err := s.Uint64()
		if err != nil {
			return 0, err
		}
		if v <= math.MaxUint64-rem {
			return int(v % un), nil
		}
	}
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](items []T, src *Source) (T, error) {
	var zero T
	idx, err := src.Intn(len(items))
	if err != nil {
		return zero, err
	}
	return items[idx], nil
}
