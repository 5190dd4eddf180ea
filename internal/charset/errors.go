package charset

import "errors"

var (
	ErrNoClasses    = errors.New("no character class enabled")
	ErrUnknownClass = errors.New("unknown character class")
)

// ConfigurationError reports an unusable class selection.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
