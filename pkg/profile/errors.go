package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no record with a profile name exists.
	ErrNotFound = errors.New("profile not found")

	// ErrParentNotFound is returned when a profile's parent cannot be found.
	ErrParentNotFound = errors.New("parent profile not found")

	// ErrLookup is returned when a profile source cannot be read or decoded.
	ErrLookup = errors.New("profile lookup")
)

// NotFoundError is returned when a profile name does not resolve.
type NotFoundError struct {
	Name string
	// Suggestions holds known profile names similar to Name, if any.
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no profile '%s' defined", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", quoteJoin(e.Suggestions))
	}

	return msg
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ParentNotFoundError is returned when a profile names a parent that does not
// resolve.
type ParentNotFoundError struct {
	Profile string
	Parent  string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("no parent profile '%s' defined for profile '%s'", e.Parent, e.Profile)
}

func (e *ParentNotFoundError) Unwrap() error {
	return ErrParentNotFound
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}

	return strings.Join(quoted, ", ")
}
