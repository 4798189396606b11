// Package errext carries two cross-cutting error annotations through a
// wrapped error chain: an operator-facing hint and a process exit code,
// separating "what went wrong" from "what the CLI returns".
package errext

import (
	"errors"
	"fmt"
)

// HasHint is implemented by errors carrying an operator-facing suggestion,
// surfaced by the CLI alongside the error text.
type HasHint interface {
	error
	Hint() string
}

// HasExitCode is implemented by errors that dictate the process exit code.
type HasExitCode interface {
	error
	ExitCode() int
}

type hintedError struct {
	err  error
	hint string
}

func (e hintedError) Error() string { return e.err.Error() }
func (e hintedError) Hint() string  { return e.hint }
func (e hintedError) Unwrap() error { return e.err }

// WithHint attaches hint to err, composing with any hint err already
// carries ("new (old)"). Returns nil if err is nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	var existing HasHint
	if errors.As(err, &existing) {
		hint = fmt.Sprintf("%s (%s)", hint, existing.Hint())
	}
	return hintedError{err: err, hint: hint}
}

type exitCodeError struct {
	err  error
	code int
}

func (e exitCodeError) Error() string { return e.err.Error() }
func (e exitCodeError) ExitCode() int { return e.code }
func (e exitCodeError) Unwrap() error { return e.err }

// WithExitCodeIfNone attaches code to err unless err already carries an exit
// code somewhere in its chain, in which case the existing one wins. Returns
// nil if err is nil.
func WithExitCodeIfNone(err error, code int) error {
	if err == nil {
		return nil
	}
	var existing HasExitCode
	if errors.As(err, &existing) {
		return err
	}
	return exitCodeError{err: err, code: code}
}
