package errors

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/multierr"
)

// New creates a new instance of the base error
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Sentinel creates a comparable error without location info, meant for
// package level error values checked with Is.
func Sentinel(msg string) error {
	return errors.New(msg)
}

// Wrap creates a new error of the wrapped error
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

// Is checks if the error is equal to the target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As returns the wrapped error
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

// Join combines the non-nil errors into one. Nil when all are nil.
func Join(errs ...error) error {
	return multierr.Combine(errs...)
}

// Append adds err to the aggregate held in left.
func Append(left error, err error) error {
	return multierr.Append(left, err)
}

// Errors flattens an aggregate built by Join or Append.
func Errors(err error) []error {
	return multierr.Errors(err)
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
