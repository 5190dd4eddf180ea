package secret

import (
	"errors"
	"fmt"
)

// ErrInvalidLength matches every *InvalidLengthError via errors.Is.
var ErrInvalidLength = errors.New("invalid length")

// InvalidLengthError reports a non-positive length or count, or a length too
// short to hold one character from every enabled class.
type InvalidLengthError struct {
	Field string
	Value int
	Min   int
	// Classes is set when the minimum comes from the coverage requirement.
	Classes int
}

func (e *InvalidLengthError) Error() string {
	if e.Classes > 0 {
		return fmt.Sprintf("invalid %s: %d is shorter than the %d enabled character classes", e.Field, e.Value, e.Classes)
	}
	return fmt.Sprintf("invalid %s: %d must be at least %d", e.Field, e.Value, e.Min)
}

func (e *InvalidLengthError) Is(target error) bool {
	return target == ErrInvalidLength
}
