// Package apperr defines the typed error kinds used across the engine's asset
// pipeline and render graph, and the context-chaining helpers that let every
// composite loader attach its own identifier without losing the root cause.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure, used to decide user-visible
// behaviour (retry, log-once, fatal) without string-matching error text.
type Kind int

const (
	// NotFound marks a missing file or an unresolved descriptor id.
	NotFound Kind = iota
	// Parse marks a descriptor syntax error (project.ron, chart.ron, controls.ron).
	Parse
	// Compile marks a shader compilation failure.
	Compile
	// Validate marks a shader reflection mismatch, a missing binding, or
	// incompatible attachment sizes.
	Validate
	// IO marks a file read/write failure.
	IO
	// GPU marks a device/queue failure.
	GPU
	// Timeout marks a failed or poisoned shared future.
	Timeout
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Parse:
		return "Parse"
	case Compile:
		return "Compile"
	case Validate:
		return "Validate"
	case IO:
		return "IO"
	case GPU:
		return "GPU"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is a typed, context-chaining error. Path identifies the resource the
// failure originates from (a file path or descriptor id); Context accumulates
// the identifiers of every composite loader that wrapped the error on its way
// to the top, outermost first.
type Error struct {
	Kind    Kind
	Path    string
	Context []string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Path)
	for _, c := range e.Context {
		msg = c + " > " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error rooted at path.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// WithContext returns a copy of err with id prepended to its context chain.
// If err is not an *Error (and wraps none), it is wrapped in a new IO-kind
// Error whose Path is id, so later WithContext calls keep accumulating
// context on it.
func WithContext(err error, id string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		cp := *ae
		cp.Context = append([]string{id}, ae.Context...)
		return &cp
	}
	return &Error{Kind: IO, Path: id, Err: err}
}

// As reports whether err is (or wraps) an *Error, and returns it.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// KindOf returns the Kind of err if it is a typed Error, and Timeout otherwise
// (the safe default: treat unknown composite failures as "this path is currently
// unavailable", matching a poisoned shared future).
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return Timeout
}
