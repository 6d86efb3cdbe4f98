package dux

import "fmt"

var (
	ErrInvalidPrefix     = fmt.Errorf("invalid action prefix")
	ErrEmptyReducerName  = fmt.Errorf("empty reducer name")
	ErrNilReducer        = fmt.Errorf("nil reducer")
	ErrInvalidSetterName = fmt.Errorf("setter name must look like set<Field>")
	ErrUnknownField      = fmt.Errorf("unknown state field")
	ErrUnsupportedState  = fmt.Errorf("setter needs a struct, struct pointer or string-keyed map state")
	ErrDuplicateSlice    = fmt.Errorf("duplicate slice name")
	ErrUnknownSlice      = fmt.Errorf("unknown slice")
)
