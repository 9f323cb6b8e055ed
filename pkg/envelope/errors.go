package envelope

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is matched by every *ShapeError.
var ErrShapeMismatch = errors.New("envelope: shape mismatch")

// ShapeError reports a discriminant or field inconsistent with a variant.
type ShapeError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s envelope: %s", ErrShapeMismatch, e.Kind, e.Reason)
	}

	return fmt.Sprintf("%s: %s envelope: field %q: %s", ErrShapeMismatch, e.Kind, e.Field, e.Reason)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}
