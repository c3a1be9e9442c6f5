// Package validation holds the field-level checks applied before anything
// is persisted. The predicates are pure; call sites abort on first failure.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel causes; callers match with errors.Is and map to a 400.
var (
	ErrOutOfRange = errors.New("value out of range")
	ErrReserved   = errors.New("value is reserved")
)

const (
	MinYear  = 1900
	MinScore = 1
	MaxScore = 10
)

// ReservedUsernames cannot be registered; "me" is the self endpoint.
var ReservedUsernames = map[string]struct{}{
	"me": {},
}

// Year checks that y falls within the publishable range.
func Year(y int) error {
	if y < MinYear || y > time.Now().Year() {
		return fmt.Errorf("%d is not a valid year: %w", y, ErrOutOfRange)
	}
	return nil
}

// Score checks that s is a valid review score.
func Score(s int) error {
	if s < MinScore || s > MaxScore {
		return fmt.Errorf("%d is not a valid score, must be between %d and %d: %w", s, MinScore, MaxScore, ErrOutOfRange)
	}
	return nil
}

// Username rejects reserved names regardless of case.
func Username(name string) error {
	if _, reserved := ReservedUsernames[strings.ToLower(name)]; reserved {
		return fmt.Errorf("username %q is not allowed: %w", name, ErrReserved)
	}
	return nil
}
