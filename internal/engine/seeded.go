package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

const roundSize = sha256.Size

// SeededReader is a deterministic byte stream built from HMAC-SHA256 rounds.
// Round r is HMAC(seed, "label:nonce:r"). It exists for reproducible tests and
// fixtures; production secrets must come from Default.
type SeededReader struct {
	seed         string
	label        string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [roundSize]byte
}

// NewSeededReader creates a stream positioned at the given byte cursor.
func NewSeededReader(seed, label string, nonce uint64, cursor uint64) *SeededReader {
	sr := &SeededReader{
		seed:         seed,
		label:        label,
		nonce:        nonce,
		currentRound: cursor / roundSize,
		currentPos:   int(cursor % roundSize),
	}

	sr.generateRound()

	return sr
}

// NewSeededSource is shorthand for NewSource(NewSeededReader(seed, label, nonce, 0)).
func NewSeededSource(seed, label string, nonce uint64) *Source {
	return NewSource(NewSeededReader(seed, label, nonce, 0))
}

// Next returns the next byte of the stream.
func (sr *SeededReader) Next() byte {
	if sr.currentPos >= roundSize {
		sr.currentRound++
		sr.currentPos = 0
		sr.generateRound()
	}

	b := sr.buffer[sr.currentPos]
	sr.currentPos++
	return b
}

// Read fills p from the stream. It never fails.
func (sr *SeededReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = sr.Next()
	}
	return len(p), nil
}

func (sr *SeededReader) generateRound() {
	h := hmac.New(sha256.New, []byte(sr.seed))
	message := fmt.Sprintf("%s:%d:%d", sr.label, sr.nonce, sr.currentRound)
	h.Write([]byte(message))
	copy(sr.buffer[:], h.Sum(nil))
}
