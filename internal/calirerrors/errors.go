// Package calirerrors defines the error shapes produced by Calir's parser,
// verifier, and interpreter. It is modeled directly on the reference
// stack's internal/errors.SentraError: a typed error with source location,
// rendered as "kind: message" plus "at file:line:col".
package calirerrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies an Error, matching spec.md §7's error kinds.
type Kind string

const (
	Syntax   Kind = "SyntaxError"
	Verify   Kind = "VerifyError"
	Runtime  Kind = "RuntimeError"
	Internal Kind = "InternalError"
)

// Location is a position in source text.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Error is Calir's diagnostic type: a kind, a message, an optional source
// location, and — for Internal errors — a wrapped cause carrying a Go stack
// trace (via github.com/pkg/errors), so a driver running with --verbose can
// print the underlying stack of a should-never-happen invariant breach.
type Error struct {
	Kind     Kind
	Message  string
	Location Location
	Cause    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if loc := e.Location.String(); loc != "" {
		sb.WriteString(fmt.Sprintf(" (at %s)", loc))
	}
	return sb.String()
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Format supports "%+v", printing the wrapped cause's stack trace (if any)
// beneath the one-line message — the same behavior github.com/pkg/errors'
// own errors get when formatted with "%+v".
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprint(s, e.Error())
			if e.Cause != nil {
				fmt.Fprintf(s, "\n%+v", e.Cause)
			}
			return
		}
		fmt.Fprint(s, e.Error())
	default:
		fmt.Fprint(s, e.Error())
	}
}

// NewSyntax builds a Syntax error at the given location.
func NewSyntax(loc Location, format string, args ...any) *Error {
	return &Error{Kind: Syntax, Message: fmt.Sprintf(format, args...), Location: loc}
}

// NewVerify builds a Verify error, optionally located at a source position
// recovered from debug info.
func NewVerify(loc Location, format string, args ...any) *Error {
	return &Error{Kind: Verify, Message: fmt.Sprintf(format, args...), Location: loc}
}

// NewRuntime builds a Runtime error (stack overflow, division by zero,
// invalid pointer, ...).
func NewRuntime(format string, args ...any) *Error {
	return &Error{Kind: Runtime, Message: fmt.Sprintf(format, args...)}
}

// NewInternal wraps cause as an Internal error, wrapping cause with a stack
// trace captured at this call.
func NewInternal(cause error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Cause: errors.WithStack(cause)}
}

// Internalf builds a stack-carrying Internal error directly from a message,
// with no separate underlying cause — for invariant breaches discovered in
// place rather than propagated from a lower call.
func Internalf(format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Cause: errors.Errorf(format, args...)}
}
