package clipper

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectionSyntax is matched by every SelectionError caused by a malformed token.
	ErrSelectionSyntax = errors.New("illegal list value")

	// ErrInvertedRange is matched by every SelectionError caused by an `a-b` range where a >= b.
	ErrInvertedRange = errors.New("inverted range")
)

// SelectionErrorKind tells why a selection token was rejected.
type SelectionErrorKind int

const (
	// SyntaxKind is a token that is not a positive decimal index or range.
	SyntaxKind SelectionErrorKind = iota
	// InvertedRangeKind is a range whose first number is not lower than the second.
	InvertedRangeKind
)

// SelectionError is returned when a selection spec cannot be parsed.
type SelectionError struct {
	Kind SelectionErrorKind

	// Token is the offending text. For a range with a bad side it is that side only.
	Token string

	// First and Last are the 1-based numbers of an inverted range.
	First, Last int
}

// Error implements the Error interface for SelectionError.
func (e *SelectionError) Error() string {
	if e.Kind == InvertedRangeKind {
		return fmt.Sprintf(
			"first number in range (%d) must be lower than second number (%d)",
			e.First,
			e.Last,
		)
	}

	return fmt.Sprintf("illegal list value: \"%s\"", e.Token)
}

// Is lets errors.Is match a SelectionError against the package sentinels.
func (e *SelectionError) Is(target error) bool {
	switch target {
	case ErrSelectionSyntax:
		return e.Kind == SyntaxKind
	case ErrInvertedRange:
		return e.Kind == InvertedRangeKind
	}
	return false
}
