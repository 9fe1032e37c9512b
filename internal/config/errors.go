package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration classifies every invariant violation detected at load time.
// Use errors.Is(err, ErrInvalidConfiguration); errors.As gives the per-field detail.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Invariant names the rule a value broke.
type Invariant string

const (
	InvariantPinsDistinct  Invariant = "pins_distinct"
	InvariantPinValid      Invariant = "pin_valid"
	InvariantPositive      Invariant = "positive"
	InvariantDurationRange Invariant = "duration_range"
	InvariantPortRange     Invariant = "port_range"
	InvariantBaudSupported Invariant = "baud_supported"
	InvariantSSIDLength    Invariant = "ssid_length"
	InvariantParse         Invariant = "parse"
)

// FieldError is one violated invariant.
type FieldError struct {
	Field     Field
	Value     any
	Invariant Invariant
	Detail    string
}

func (e FieldError) Error() string {
	if e.Field == FieldWiFiPassword {
		return fmt.Sprintf("%s violates %s: %s", e.Field, e.Invariant, e.Detail)
	}
	return fmt.Sprintf("%s=%v violates %s: %s", e.Field, e.Value, e.Invariant, e.Detail)
}

// InvalidConfigurationError collects every problem found in one load.
type InvalidConfigurationError struct {
	Problems []FieldError
}

func (e *InvalidConfigurationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, strings.Join(msgs, "; "))
}

func (e *InvalidConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Has reports whether field failed the given invariant.
func (e *InvalidConfigurationError) Has(field Field, inv Invariant) bool {
	for _, p := range e.Problems {
		if p.Field == field && p.Invariant == inv {
			return true
		}
	}
	return false
}

type problems []FieldError

func (p *problems) add(field Field, value any, inv Invariant, format string, args ...any) {
	*p = append(*p, FieldError{
		Field:     field,
		Value:     value,
		Invariant: inv,
		Detail:    fmt.Sprintf(format, args...),
	})
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return &InvalidConfigurationError{Problems: p}
}
