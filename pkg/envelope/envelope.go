// Package envelope defines the response contract shared by every outward-facing
// surface of the gateway.
//
// A response is exactly one of four variants: Success, Error, Paginated or
// Empty. The "success" discriminant is not stored; each variant writes its own
// constant when encoded, so it cannot drift after construction. Constructors
// never fail. Validate and Decode report malformed shapes as ErrShapeMismatch.
package envelope

import "time"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Kind int

const (
	KindUnknown Kind = iota
	KindSuccess
	KindError
	KindPaginated
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	case KindPaginated:
		return "paginated"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Envelope is implemented by the four variants only.
type Envelope interface {
	Kind() Kind
	IsSuccess() bool
	// Stamp returns the ISO-8601 timestamp captured at construction.
	Stamp() string
	isEnvelope()
}

var (
	_ Envelope = Success[any]{}
	_ Envelope = Error{}
	_ Envelope = Paginated[any]{}
	_ Envelope = Empty{}
)

// FormatTimestamp renders t the way envelopes carry it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
