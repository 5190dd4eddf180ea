// Package secret builds secrets that contain at least one character from every
// enabled class, shuffled with a secure source and optionally base64 encoded.
package secret

import (
	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
)

// Config describes one generation request.
type Config struct {
	Length  int             `json:"length"`
	Count   int             `json:"count"`
	Classes []charset.Class `json:"classes"`
	Encode  bool            `json:"encode"`
}

// Validate checks cfg and resolves its pools. It consumes no randomness.
func (c Config) Validate() (charset.Pools, error) {
	pools, err := charset.Resolve(c.Classes)
	if err != nil {
		return charset.Pools{}, err
	}
	if c.Count <= 0 {
		return charset.Pools{}, &InvalidLengthError{Field: "count", Value: c.Count, Min: 1}
	}
	if c.Length <= 0 {
		return charset.Pools{}, &InvalidLengthError{Field: "length", Value: c.Length, Min: 1}
	}
	if c.Length < len(pools.Classes) {
		return charset.Pools{}, &InvalidLengthError{
			Field:   "length",
			Value:   c.Length,
			Min:     len(pools.Classes),
			Classes: len(pools.Classes),
		}
	}
	return pools, nil
}

// GenerateAll produces cfg.Count independent secrets from src. It returns
// either every secret or none.
func GenerateAll(cfg Config, src *engine.Source) ([]string, error) {
	pools, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		s, err := Build(pools, cfg.Length, src)
		if err != nil {
			return nil, err
		}
		if err := engine.Shuffle(s, src); err != nil {
			return nil, err
		}
		out = append(out, Encode(s, cfg.Encode))
		clear(s)
	}
	return out, nil
}

// Generate is GenerateAll with the crypto/rand backed default source.
func Generate(cfg Config) ([]string, error) {
	return GenerateAll(cfg, engine.Default())
}
