package helper

import (
	"fmt"
)

// ErrUnexpectedType is returned when a dynamically typed value cannot be asserted to the requested type.
var ErrUnexpectedType = fmt.Errorf("unexpected type")

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// Returns an error if the getter fails or the type assertion fails.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnexpectedType, res)
	}

	return val, nil
}

// PayloadAs asserts an action payload to P.
// A nil payload yields P's zero value, so reducers that take no payload
// can be declared with any P and dispatched with nil.
func PayloadAs[P any](payload any) (res P, ok bool) {
	if payload == nil {
		return res, true
	}
	res, ok = payload.(P)
	return
}
