package secret

import (
	"fmt"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
)

// Build draws one unshuffled secret of exactly length runes.
//
// The first len(pools.Classes) runes are one uniform draw from each class
// pool in declaration order; the rest are drawn with replacement from the
// fill pool. Callers must shuffle the result before use.
func Build(pools charset.Pools, length int, src *engine.Source) ([]rune, error) {
	if len(pools.Classes) == 0 || len(pools.Fill) == 0 {
		return nil, &charset.ConfigurationError{
			Reason: "at least one character class must be enabled",
			Err:    charset.ErrNoClasses,
		}
	}
	if length <= 0 {
		return nil, &InvalidLengthError{Field: "length", Value: length, Min: 1}
	}
	if length < len(pools.Classes) {
		return nil, &InvalidLengthError{
			Field:   "length",
			Value:   length,
			Min:     len(pools.Classes),
			Classes: len(pools.Classes),
		}
	}

	out := make([]rune, 0, length)

	// Coverage
	for i, pool := range pools.Classes {
		r, err := engine.Pick(pool, src)
		if err != nil {
			return nil, fmt.Errorf("draw from %s: %w", pools.IDs[i], err)
		}
		out = append(out, r)
	}

	// Fill
	for len(out) < length {
		r, err := engine.Pick(pools.Fill, src)
		if err != nil {
			return nil, fmt.Errorf("draw from fill pool: %w", err)
		}
		out = append(out, r)
	}

	return out, nil
}
