// Public domain.

// Package astroerr defines the closed set of error kinds returned by the
// altaz packages.
//
// Every failure from the computational packages is an *Error carrying one
// of the Kind values below.  Kind itself implements error, so callers can
// test for a kind with errors.Is:
//
//	if errors.Is(err, astroerr.OutOfRange) { ... }
//
// Translating kinds to anything else, HTTP status codes for example, is the
// job of whatever sits on top of these packages.
package astroerr

import (
	"errors"
	"math"
	"strconv"
)

// Kind discriminates failures.
type Kind int

const (
	// InvalidFormat means text could not be parsed.
	InvalidFormat Kind = iota + 1
	// OutOfRange means a value is outside the domain where it is valid.
	OutOfRange
	// ConvergenceFailure means an iterative inverse did not converge.
	ConvergenceFailure
	// InvalidInput means a NaN or infinite number.
	InvalidInput
)

var kindNames = map[Kind]string{
	InvalidFormat:      "invalid format",
	OutOfRange:         "out of range",
	ConvergenceFailure: "convergence failure",
	InvalidInput:       "invalid input",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Error lets a bare Kind be used as an errors.Is target.
func (k Kind) Error() string { return k.String() }

// Error is the error type returned by altaz packages.
type Error struct {
	Kind  Kind
	Op    string // operation, "ParseLatitude" or "refraction.Bennett" say
	Token string // offending text or value, may be empty
	Msg   string // optional detail
}

// New returns an *Error.
func New(k Kind, op, token, msg string) *Error {
	return &Error{Kind: k, Op: op, Token: token, Msg: msg}
}

// Range returns an OutOfRange *Error for value v.
func Range(op string, v float64, msg string) *Error {
	return &Error{
		Kind:  OutOfRange,
		Op:    op,
		Token: strconv.FormatFloat(v, 'g', -1, 64),
		Msg:   msg,
	}
}

func (e *Error) Error() string {
	s := e.Op + ": " + e.Kind.String()
	if e.Token != "" {
		s += " " + strconv.Quote(e.Token)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Is reports whether target is the Kind of e, or an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or 0 if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Finite returns an InvalidInput error if any of x is NaN or infinite.
func Finite(op string, x ...float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &Error{
				Kind:  InvalidInput,
				Op:    op,
				Token: strconv.FormatFloat(v, 'g', -1, 64),
			}
		}
	}
	return nil
}
