package secret

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotUTF8 is returned by Decode when the decoded bytes are not valid UTF-8.
var ErrNotUTF8 = errors.New("decoded secret is not valid UTF-8")

// Encode renders secret as text. When enabled the UTF-8 bytes are encoded with
// padded standard base64.
func Encode(secret []rune, enabled bool) string {
	s := string(secret)
	if !enabled {
		return s
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode(secret, true).
func Decode(text string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", ErrNotUTF8
	}
	return string(raw), nil
}
