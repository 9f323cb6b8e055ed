package envelope

import (
	"reflect"
	"time"
)

// Validate checks that env is internally consistent: the timestamp parses as
// ISO-8601 and an Error carries a non-empty code and message.
func Validate(env Envelope) error {
	if env == nil {
		return &ShapeError{Reason: "nil envelope"}
	}

	if v := reflect.ValueOf(env); v.Kind() == reflect.Pointer && v.IsNil() {
		return &ShapeError{Reason: "nil " + v.Type().Elem().Name() + " envelope"}
	}

	if err := validateTimestamp(env.Kind(), env.Stamp()); err != nil {
		return err
	}

	switch e := env.(type) {
	case Error:
		return validateErrorBody(e.Err)
	case *Error:
		return validateErrorBody(e.Err)
	}

	return nil
}

func validateTimestamp(kind Kind, ts string) error {
	field := "timestamp"
	if kind == KindError {
		field = "error.timestamp"
	}

	if ts == "" {
		return &ShapeError{Kind: kind, Field: field, Reason: "missing"}
	}

	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		return &ShapeError{Kind: kind, Field: field, Reason: "not ISO-8601"}
	}

	return nil
}

func validateErrorBody(body ErrorBody) error {
	if body.Code == "" {
		return &ShapeError{Kind: KindError, Field: "error.code", Reason: "empty"}
	}

	if body.Message == "" {
		return &ShapeError{Kind: KindError, Field: "error.message", Reason: "empty"}
	}

	return nil
}
