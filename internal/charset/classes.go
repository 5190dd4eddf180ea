// Package charset holds the fixed character classes secrets are drawn from and
// resolves a selection of them into sampling pools.
package charset

import (
	"fmt"
	"strings"
)

// Class identifies a character class.
type Class string

const (
	Uppercase       Class = "uppercase"
	Lowercase       Class = "lowercase"
	Digits          Class = "digits"
	Special         Class = "special"
	ExtendedSpecial Class = "extended-special"
)

// Definition binds a class to its label and symbols.
type Definition struct {
	ID      Class  `json:"id"`
	Label   string `json:"label"`
	Symbols string `json:"symbols"`
}

// definitions is in declaration order; pools are always built in this order.
var definitions = []Definition{
	{ID: Uppercase, Label: "Upper Case", Symbols: "ABCDEFGHIJKLMNOPQRSTUVWXYZ"},
	{ID: Lowercase, Label: "Lower Case", Symbols: "abcdefghijklmnopqrstuvwxyz"},
	{ID: Digits, Label: "Numbers", Symbols: "0123456789"},
	{ID: Special, Label: "Special Characters", Symbols: "!@#$%^&*()-_=+[]{}|;:'\",.<>?/`~"},
	// Latin-1 symbol block minus U+00AD (soft hyphen), which renders invisibly.
	{ID: ExtendedSpecial, Label: "Extended Special Characters", Symbols: "¡¢£¤¥¦§¨©ª«¬®¯°±²³´µ¶·¸¹º»¼½¾¿×÷"},
}

var (
	registry = make(map[Class]int, len(definitions))
	aliases  = map[string]Class{
		"upper":           Uppercase,
		"lower":           Lowercase,
		"numbers":         Digits,
		"number":          Digits,
		"digit":           Digits,
		"basicspecial":    Special,
		"basic-special":   Special,
		"symbols":         Special,
		"extendedspecial": ExtendedSpecial,
		"extended":        ExtendedSpecial,
	}
)

func init() {
	for i, d := range definitions {
		registry[d.ID] = i
	}
}

// All returns every class definition in declaration order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// IDs returns every class identifier in declaration order.
func IDs() []Class {
	out := make([]Class, len(definitions))
	for i, d := range definitions {
		out[i] = d.ID
	}
	return out
}

// Lookup returns the definition for c.
func Lookup(c Class) (Definition, bool) {
	i, ok := registry[c]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

// ParseClass maps a canonical id or alias (case-insensitive) to a Class.
func ParseClass(s string) (Class, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := registry[Class(key)]; ok {
		return Class(key), nil
	}
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return "", &ConfigurationError{
		Reason: fmt.Sprintf("unknown character class %q", s),
		Err:    ErrUnknownClass,
	}
}

// ParseClasses parses each name, also splitting comma separated lists.
// Blank entries are skipped.
func ParseClasses(names []string) ([]Class, error) {
	var out []Class
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			c, err := ParseClass(part)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}
