package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBoardSize   = errors.New("board size must be positive")
	ErrOutOfBounds        = errors.New("position is out of bounds")
	ErrMalformedBoard     = errors.New("malformed board data")
	ErrMatchAlreadyRun    = errors.New("match simulator has already been run")
	ErrInterrupted        = errors.New("run interrupted")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrRequestTimeout     = errors.New("request timeout")
	ErrTransport          = errors.New("request failed")
	ErrNoValidMoves       = errors.New("no valid moves available")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

type FailureKind int

const (
	FailureTimeout FailureKind = iota + 1
	FailureTransport
	FailureNoValidMoves
	FailureUnexpectedResponse
)

func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	case FailureNoValidMoves:
		return "noValidMoves"
	case FailureUnexpectedResponse:
		return "unexpectedResponse"
	}
	return "unknown"
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureTimeout:
		return ErrRequestTimeout
	case FailureTransport:
		return ErrTransport
	case FailureNoValidMoves:
		return ErrNoValidMoves
	case FailureUnexpectedResponse:
		return ErrUnexpectedResponse
	}
	return nil
}

// Failure is the outcome of a move request that did not yield a move.
// ResponseTime is measured the same way as for successful requests.
type Failure struct {
	Kind         FailureKind
	ResponseTime float64 // ms
	StatusCode   int
	Body         string
	Cause        error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureTimeout:
		return fmt.Sprintf("request timeout after %.0fms", f.ResponseTime)
	case FailureTransport:
		return fmt.Sprintf("request failed: %v", f.Cause)
	case FailureNoValidMoves:
		return ErrNoValidMoves.Error()
	case FailureUnexpectedResponse:
		return fmt.Sprintf("HTTP %d: %s", f.StatusCode, f.Body)
	}
	return "unknown failure"
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

func (f *Failure) Is(target error) bool {
	return target != nil && target == f.Kind.sentinel()
}
