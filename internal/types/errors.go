package types

import (
	"errors"
	"fmt"
)

// ErrInsufficientSignal is returned when no category is scorable. It is
// fatal to one analysis run but never to the process; callers may retry
// after acquiring more data.
var ErrInsufficientSignal = errors.New("insufficient signal: no scorable category")

// DataIntegrityError reports a malformed input series (unordered or
// duplicate timestamps, negative volume). The analysis run is aborted.
type DataIntegrityError struct {
	Symbol string
	Index  int
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s at point %d for %s", e.Reason, e.Index, e.Symbol)
}

// ConfigError reports invalid weights or thresholds, rejected before any
// computation begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}
