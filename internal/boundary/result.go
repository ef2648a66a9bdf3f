// Package boundary shapes the decoder results into the fixed value records the
// C library hands out, with exactly one of value and error set.
package boundary

import "errors"

var errUnknown = errors.New("unknown error")

type Result[T any] struct {
	value *T
	err   error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: &value}
}

// Err never produces an empty result: a nil error still counts as a failure.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = errUnknown
	}
	return Result[T]{err: err}
}

func (r Result[T]) Value() *T {
	return r.value
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) IsOk() bool {
	return r.value != nil
}

// Message is the error text the structured error is reduced to, empty for
// successful results.
func (r Result[T]) Message() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}
