package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by direct lookups of an unknown location.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTimeZone is returned when a zone identifier cannot be resolved.
	ErrInvalidTimeZone = errors.New("invalid time zone")
)

// ConfigurationError reports a rule set that cannot be saved as written.
type ConfigurationError struct {
	LocationID string
	Field      string
	Value      string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: location %q: %s=%q: %s", e.LocationID, e.Field, e.Value, e.Reason)
}

// TransientFetchError wraps a failure retrieving one candidate's facts.
// It is contained to that candidate and never aborts a ranking run.
type TransientFetchError struct {
	LocationID string
	Source     string
	Err        error
}

func (e *TransientFetchError) Error() string {
	return fmt.Sprintf("fetch %s for location %q: %v", e.Source, e.LocationID, e.Err)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// ConfigurationErrors flattens every *ConfigurationError in err's tree.
func ConfigurationErrors(err error) []*ConfigurationError {
	var out []*ConfigurationError
	var walk func(error)
	walk = func(e error) {
		switch v := e.(type) {
		case nil:
			return
		case *ConfigurationError:
			out = append(out, v)
		case interface{ Unwrap() []error }:
			for _, inner := range v.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(v.Unwrap())
		}
	}
	walk(err)
	return out
}
