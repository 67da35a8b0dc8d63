package ir

import (
	"errors"
	"fmt"
)

// Generation-time sentinels. Use errors.Is to classify a failure without
// depending on the concrete error type.
var (
	ErrUnsupportedType             = errors.New("unsupported type")
	ErrUnsupportedConstructorArity = errors.New("unsupported constructor arity")
)

// UnsupportedTypeError reports a type kind that a marshaling rule does not
// cover. Generation aborts with no output when one is raised.
type UnsupportedTypeError struct {
	Op   string // "decl", "coerce", "lower", "lift", "size", "encode", ...
	Type Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type %s for %s", typeString(e.Type), e.Op)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedType builds an UnsupportedTypeError.
func NewUnsupportedType(op string, t Type) *UnsupportedTypeError {
	return &UnsupportedTypeError{Op: op, Type: t}
}

// UnsupportedConstructorArityError reports an object whose constructor count
// the bindings cannot express (exactly one is supported).
type UnsupportedConstructorArityError struct {
	Object string
	Count  int
}

func (e *UnsupportedConstructorArityError) Error() string {
	return fmt.Sprintf("object %s declares %d constructors, exactly 1 is supported", e.Object, e.Count)
}

func (e *UnsupportedConstructorArityError) Is(target error) bool {
	return target == ErrUnsupportedConstructorArity
}
