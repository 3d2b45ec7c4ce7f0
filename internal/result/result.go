// Package result provides a two-arm outcome type: a successful value or an
// error, never both.
package result

import (
	"errors"
	"fmt"
)

// ErrResultMisuse is matched by every MisuseError.
var ErrResultMisuse = errors.New("result misuse")

// errUnspecified stands in for a nil error passed to Failure.
var errUnspecified = errors.New("unspecified failure")

// Arm names one side of a Result.
type Arm string

const (
	ArmSuccess Arm = "success"
	ArmFailure Arm = "failure"
)

// MisuseError reports an extraction of the arm a Result does not hold.
type MisuseError struct {
	Wanted Arm
	Held   Arm
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("result misuse: asked for %s payload of a %s result", e.Wanted, e.Held)
}

func (e *MisuseError) Is(target error) bool {
	return target == ErrResultMisuse
}

// Result holds either a value of type T or an error.
// The zero value is a success holding the zero T.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a Result holding v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure returns a Result holding err. A nil err is replaced by a
// placeholder so that the result is still a failure.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errUnspecified
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the success payload, or a *MisuseError if r is a failure.
func (r Result[T]) Value() (T, error) {
	if r.err != nil {
		var zero T
		return zero, &MisuseError{Wanted: ArmSuccess, Held: ArmFailure}
	}
	return r.value, nil
}

// Err returns the failure payload, or a *MisuseError if r is a success.
func (r Result[T]) Err() (error, error) {
	if r.err == nil {
		return nil, &MisuseError{Wanted: ArmFailure, Held: ArmSuccess}
	}
	return r.err, nil
}

// Get destructures r the usual Go way.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// MustValue returns the success payload and panics on a failure.
func (r Result[T]) MustValue() T {
	v, err := r.Value()
	if err != nil {
		panic(fmt.Errorf("%w (held error: %v)", err, r.err))
	}
	return v
}

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("failure(%v)", r.err)
	}
	return fmt.Sprintf("success(%v)", r.value)
}

// Map applies f to the value of a successful r. Failures pass through.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Failure[U](r.err)
	}
	return Success(f(r.value))
}
