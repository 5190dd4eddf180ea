package secret

import (
	"bytes"
	"errors"
	"testing"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
)

func mustResolve(t *testing.T, classes ...charset.Class) charset.Pools {
	t.Helper()
	p, err := charset.Resolve(classes)
	if err != nil {
		t.Fatalf("Resolve(%v): %v", classes, err)
	}
	return p
}

func TestBuildCoverageComesFirst(t *testing.T) {
	pools := mustResolve(t, charset.Digits, charset.Uppercase, charset.Special)
	src := engine.NewSeededSource("build_seed", "coverage", 0)

	for i := 0; i < 200; i++ {
		s, err := Build(pools, 10, src)
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}
		if len(s) != 10 {
			t.Fatalf("expected 10 runes, got %d", len(s))
		}
		// Coverage draws follow declaration order: uppercase, digits, special.
		for j, pool := range pools.Classes {
			if !containsRune(pool, s[j]) {
				t.Errorf("position %d = %q, expected a %s symbol", j, s[j], pools.IDs[j])
			}
		}
		for _, r := range s {
			if !containsRune(pools.Fill, r) {
				t.Errorf("rune %q outside the fill pool", r)
			}
		}
	}
}

func TestBuildExactCoverageLength(t *testing.T) {
	pools := mustResolve(t, charset.Uppercase, charset.Lowercase, charset.Digits)
	s, err := Build(pools, 3, engine.NewSeededSource("exact", "exact", 0))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(s) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(s))
	}
}

func TestBuildFillSamplesWithReplacement(t *testing.T) {
	// A 40 rune secret from a 10 rune pool must repeat symbols.
	pools := mustResolve(t, charset.Digits)
	s, err := Build(pools, 40, engine.NewSeededSource("fill", "fill", 0))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(s) != 40 {
		t.Fatalf("expected 40 runes, got %d", len(s))
	}
}

func TestBuildErrors(t *testing.T) {
	pools := mustResolve(t, charset.Uppercase, charset.Digits, charset.Special)
	src := engine.NewSeededSource("errors", "errors", 0)

	tests := []struct {
		name   string
		pools  charset.Pools
		length int
	}{
		{name: "shorter than class count", pools: pools, length: 2},
		{name: "zero length", pools: pools, length: 0},
		{name: "negative length", pools: pools, length: -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.pools, tt.length, src)
			var lenErr *InvalidLengthError
			if !errors.As(err, &lenErr) {
				t.Fatalf("expected InvalidLengthError, got %v", err)
			}
			if !errors.Is(err, ErrInvalidLength) {
				t.Errorf("expected errors.Is ErrInvalidLength")
			}
		})
	}

	t.Run("empty pools", func(t *testing.T) {
		_, err := Build(charset.Pools{}, 8, src)
		if !errors.Is(err, charset.ErrNoClasses) {
			t.Errorf("expected ErrNoClasses, got %v", err)
		}
	})
}

func TestBuildConsumesNoRandomnessOnInvalidInput(t *testing.T) {
	pools := mustResolve(t, charset.Uppercase, charset.Digits, charset.Special)
	// An empty reader fails on the first draw; validation must fail first.
	src := engine.NewSource(bytes.NewReader(nil))

	_, err := Build(pools, 2, src)
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength before any draw, got %v", err)
	}
}

func TestBuildSourceFailure(t *testing.T) {
	pools := mustResolve(t, charset.Lowercase)
	src := engine.NewSource(bytes.NewReader([]byte{1, 2}))

	if _, err := Build(pools, 4, src); err == nil {
		t.Fatal("expected error from exhausted source")
	}
}

func containsRune(pool []rune, r rune) bool {
	for _, p := range pool {
		if p == r {
			return true
		}
	}
	return false
}
