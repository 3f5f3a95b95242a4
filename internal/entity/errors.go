package entity

import (
	"context"
	"errors"
	"fmt"
)

// Operation names the backend call an error belongs to.
type Operation string

const (
	OpSeries   Operation = "series"
	OpAnalyze  Operation = "analyze"
	OpChat     Operation = "chat"
	OpTrending Operation = "trending"
)

// ValidationError is malformed user input rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// FetchError is a transport or backend failure of one of the four backend operations.
type FetchError struct {
	Op         Operation
	Symbol     Symbol
	StatusCode int
	Detail     string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s request failed", e.Op)
	if !e.Symbol.IsZero() {
		msg = fmt.Sprintf("%s request for %s failed", e.Op, e.Symbol)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError is a backend response whose shape does not match the expected schema.
// It reaches callers wrapped in a FetchError.
type DecodeError struct {
	Op  Operation
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsFetch(err error) bool {
	var target *FetchError
	return errors.As(err, &target)
}

func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsCanceled reports whether err comes from a superseded or shut-down request.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
