package envelope

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Classify reports which variant a wire document encodes.
//
// "success": false requires an "error" object with a "code"; "success": true
// is Paginated when "pagination" is present, Success when "data" is present,
// and Empty otherwise. Anything else is a ShapeError.
func Classify(raw []byte) (Kind, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return KindUnknown, &ShapeError{Reason: "not a JSON object: " + err.Error()}
	}

	if fields == nil {
		return KindUnknown, &ShapeError{Reason: "not a JSON object"}
	}

	rawSuccess, ok := fields["success"]
	if !ok {
		return KindUnknown, &ShapeError{Field: "success", Reason: "missing"}
	}

	var success bool
	if isNull(rawSuccess) || json.Unmarshal(rawSuccess, &success) != nil {
		return KindUnknown, &ShapeError{Field: "success", Reason: "not a boolean"}
	}

	rawError, hasError := fields["error"]

	if !success {
		if !hasError || isNull(rawError) {
			return KindError, &ShapeError{Kind: KindError, Field: "error", Reason: "missing"}
		}

		var body struct {
			Code *string `json:"code"`
		}
		if err := json.Unmarshal(rawError, &body); err != nil {
			return KindError, &ShapeError{Kind: KindError, Field: "error", Reason: "not an object"}
		}

		if body.Code == nil {
			return KindError, &ShapeError{Kind: KindError, Field: "error.code", Reason: "missing"}
		}

		return KindError, nil
	}

	if hasError {
		return KindUnknown, &ShapeError{Field: "error", Reason: "present on a successful envelope"}
	}

	if _, ok := fields["pagination"]; ok {
		return KindPaginated, nil
	}

	if _, ok := fields["data"]; ok {
		return KindSuccess, nil
	}

	return KindEmpty, nil
}

// Decode classifies raw and returns the matching variant. Payloads are left as
// raw JSON; use DecodeSuccess or DecodePaginated for typed data.
func Decode(raw []byte) (Envelope, error) {
	kind, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	var env Envelope
	switch kind {
	case KindSuccess:
		env, err = decodeSuccess[json.RawMessage](raw)
	case KindError:
		env, err = decodeError(raw)
	case KindPaginated:
		env, err = decodePaginated[json.RawMessage](raw)
	default:
		env, err = decodeEmpty(raw)
	}

	if err != nil {
		return nil, err
	}

	return env, nil
}

func DecodeSuccess[T any](raw []byte) (Success[T], error) {
	var s Success[T]
	err := json.Unmarshal(raw, &s)
	return s, err
}

func DecodePaginated[T any](raw []byte) (Paginated[T], error) {
	var p Paginated[T]
	err := json.Unmarshal(raw, &p)
	return p, err
}

func DecodeError(raw []byte) (Error, error) {
	var e Error
	err := json.Unmarshal(raw, &e)
	return e, err
}

func DecodeEmpty(raw []byte) (Empty, error) {
	var e Empty
	err := json.Unmarshal(raw, &e)
	return e, err
}

func expectKind(raw []byte, want Kind) error {
	got, err := Classify(raw)
	if err != nil {
		return err
	}

	if got != want {
		return &ShapeError{Kind: want, Reason: "document encodes a " + got.String() + " envelope"}
	}

	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}
