package secret

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
)

func TestGenerateAllProperties(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "uppercase and digits",
			cfg:  Config{Length: 8, Count: 1, Classes: []charset.Class{charset.Uppercase, charset.Digits}},
		},
		{
			name: "all classes at minimum length",
			cfg:  Config{Length: 5, Count: 20, Classes: charset.IDs()},
		},
		{
			name: "all classes long",
			cfg:  Config{Length: 128, Count: 10, Classes: charset.IDs()},
		},
		{
			name: "extended only",
			cfg:  Config{Length: 16, Count: 5, Classes: []charset.Class{charset.ExtendedSpecial}},
		},
		{
			name: "length one",
			cfg:  Config{Length: 1, Count: 50, Classes: []charset.Class{charset.Special}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := engine.NewSeededSource("generate_seed", tt.name, 0)
			got, err := GenerateAll(tt.cfg, src)
			if err != nil {
				t.Fatalf("GenerateAll returned error: %v", err)
			}
			if len(got) != tt.cfg.Count {
				t.Fatalf("expected %d secrets, got %d", tt.cfg.Count, len(got))
			}

			pools := mustResolve(t, tt.cfg.Classes...)
			for _, s := range got {
				assertValidSecret(t, s, pools, tt.cfg.Length)
			}
		})
	}
}

func TestGenerateAllEncoded(t *testing.T) {
	cfg := Config{Length: 12, Count: 3, Classes: []charset.Class{charset.Lowercase}, Encode: true}
	got, err := GenerateAll(cfg, engine.NewSeededSource("encoded", "encoded", 0))
	if err != nil {
		t.Fatalf("GenerateAll returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 secrets, got %d", len(got))
	}

	pools := mustResolve(t, charset.Lowercase)
	seen := map[string]bool{}
	for _, enc := range got {
		s, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		assertValidSecret(t, s, pools, 12)
		if seen[s] {
			t.Errorf("duplicate secret %q", s)
		}
		seen[s] = true
	}
}

func TestGenerateAllExtendedEncodedRoundTrip(t *testing.T) {
	cfg := Config{Length: 24, Count: 10, Classes: charset.IDs(), Encode: true}
	got, err := GenerateAll(cfg, engine.NewSeededSource("roundtrip", "roundtrip", 0))
	if err != nil {
		t.Fatalf("GenerateAll returned error: %v", err)
	}
	pools := mustResolve(t, charset.IDs()...)
	for _, enc := range got {
		s, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%q): %v", enc, err)
		}
		if Encode([]rune(s), true) != enc {
			t.Errorf("re-encoding %q did not reproduce %q", s, enc)
		}
		assertValidSecret(t, s, pools, 24)
	}
}

func TestGenerateAllErrors(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
		wantCfg   bool
	}{
		{
			name:      "length below class count",
			cfg:       Config{Length: 2, Count: 1, Classes: []charset.Class{charset.Uppercase, charset.Digits, charset.Special}},
			wantField: "length",
		},
		{
			name:    "no classes",
			cfg:     Config{Length: 5, Count: 1},
			wantCfg: true,
		},
		{
			name:    "unknown class",
			cfg:     Config{Length: 5, Count: 1, Classes: []charset.Class{"runic"}},
			wantCfg: true,
		},
		{
			name:      "zero length",
			cfg:       Config{Length: 0, Count: 1, Classes: []charset.Class{charset.Digits}},
			wantField: "length",
		},
		{
			name:      "zero count",
			cfg:       Config{Length: 8, Count: 0, Classes: []charset.Class{charset.Digits}},
			wantField: "count",
		},
		{
			name:      "negative count",
			cfg:       Config{Length: 8, Count: -2, Classes: []charset.Class{charset.Digits}},
			wantField: "count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation happens before any draw, so an empty source is fine.
			src := engine.NewSource(bytes.NewReader(nil))
			got, err := GenerateAll(tt.cfg, src)
			if got != nil {
				t.Errorf("expected no output on error, got %v", got)
			}

			if tt.wantCfg {
				var cfgErr *charset.ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigurationError, got %v", err)
				}
				return
			}

			var lenErr *InvalidLengthError
			if !errors.As(err, &lenErr) {
				t.Fatalf("expected InvalidLengthError, got %v", err)
			}
			if lenErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", lenErr.Field, tt.wantField)
			}
		})
	}
}

func TestGenerateAllIsAllOrNothing(t *testing.T) {
	// 50 words covers the 31 draws of the first secret but not the second.
	full := make([]byte, 4096)
	engine.NewSeededReader("partial", "partial", 0, 0).Read(full)
	src := engine.NewSource(bytes.NewReader(full[:400]))

	cfg := Config{Length: 16, Count: 5, Classes: []charset.Class{charset.Lowercase}}
	got, err := GenerateAll(cfg, src)
	if err == nil {
		t.Fatal("expected error once the source runs dry")
	}
	if got != nil {
		t.Errorf("expected nil output, got %d secrets", len(got))
	}
}

// With uppercase and digits enabled the unshuffled secret always has a digit
// at index 1. After shuffling every position must hold a digit equally often.
func TestGenerateAllNoPositionBias(t *testing.T) {
	const (
		length = 8
		trials = 8000
	)
	cfg := Config{Length: length, Count: trials, Classes: []charset.Class{charset.Uppercase, charset.Digits}}
	got, err := GenerateAll(cfg, engine.NewSeededSource("position_bias", "chi-square", 0))
	if err != nil {
		t.Fatalf("GenerateAll returned error: %v", err)
	}

	digitsAt := make([]int, length)
	for _, s := range got {
		for i, r := range s {
			if r >= '0' && r <= '9' {
				digitsAt[i]++
			}
		}
	}

	var total int
	for _, c := range digitsAt {
		total += c
	}
	expected := float64(total) / length
	var chi2 float64
	for _, c := range digitsAt {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// 7 degrees of freedom; 35 sits well past the 0.0001 critical value (29.9).
	if chi2 > 35 {
		t.Errorf("digit placement is position biased: chi-square %.2f, counts %v", chi2, digitsAt)
	}
}

func TestGenerateAllSharedSourceConcurrent(t *testing.T) {
	const workers = 8
	cfg := Config{Length: 16, Count: 200, Classes: charset.IDs(), Encode: true}
	pools := mustResolve(t, cfg.Classes...)
	src := engine.NewSeededSource("shared_source", "concurrent", 0)

	results := make([][]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w], errs[w] = GenerateAll(cfg, src)
		}(w)
	}
	wg.Wait()

	seen := make(map[string]bool, workers*cfg.Count)
	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			t.Fatalf("worker %d: GenerateAll returned error: %v", w, errs[w])
		}
		if len(results[w]) != cfg.Count {
			t.Fatalf("worker %d: expected %d secrets, got %d", w, cfg.Count, len(results[w]))
		}
		for _, enc := range results[w] {
			s, err := Decode(enc)
			if err != nil {
				t.Fatalf("Decode(%q): %v", enc, err)
			}
			assertValidSecret(t, s, pools, cfg.Length)
			if seen[s] {
				t.Errorf("secret %q produced twice across workers", s)
			}
			seen[s] = true
		}
	}
}

func TestGenerateUsesSecureDefault(t *testing.T) {
	cfg := Config{Length: 32, Count: 2, Classes: charset.IDs()}
	got, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got[0] == got[1] {
		t.Errorf("two generated secrets are identical: %q", got[0])
	}
}

func assertValidSecret(t *testing.T, s string, pools charset.Pools, length int) {
	t.Helper()

	if n := utf8.RuneCountInString(s); n != length {
		t.Errorf("secret %q has %d runes, want %d", s, n, length)
	}
	for _, r := range s {
		if !containsRune(pools.Fill, r) {
			t.Errorf("secret %q contains %q outside the enabled classes", s, r)
		}
	}
	for i, pool := range pools.Classes {
		if !strings.ContainsAny(s, string(pool)) {
			t.Errorf("secret %q has no %s character", s, pools.IDs[i])
		}
	}
}
