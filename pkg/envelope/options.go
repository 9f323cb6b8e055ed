package envelope

import (
	"maps"
	"time"
)

// Option sets an optional envelope field. Options that do not apply to the
// variant being built are ignored.
type Option func(*options)

type options struct {
	message   *string
	requestID *string
	details   *string
	meta      map[string]any
	context   map[string]any
	at        time.Time
}

// WithMessage applies to Success and Empty.
func WithMessage(message string) Option {
	return func(o *options) {
		if message != "" {
			o.message = &message
		}
	}
}

// WithRequestID applies to every variant.
func WithRequestID(requestID string) Option {
	return func(o *options) {
		if requestID != "" {
			o.requestID = &requestID
		}
	}
}

// WithMeta applies to Success and Paginated. The map is copied. Values go
// through encoding/json, so after decoding numbers are float64 and nested
// objects are map[string]any.
func WithMeta(meta map[string]any) Option {
	return func(o *options) {
		if len(meta) > 0 {
			o.meta = maps.Clone(meta)
		}
	}
}

// WithDetails applies to Error.
func WithDetails(details string) Option {
	return func(o *options) {
		if details != "" {
			o.details = &details
		}
	}
}

// WithContext applies to Error. The map is copied. Decoded values follow
// the same encoding/json rules as WithMeta.
func WithContext(context map[string]any) Option {
	return func(o *options) {
		if len(context) > 0 {
			o.context = maps.Clone(context)
		}
	}
}

// At overrides the construction time.
func At(t time.Time) Option {
	return func(o *options) {
		o.at = t
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

func (o options) timestamp() string {
	if o.at.IsZero() {
		return FormatTimestamp(time.Now())
	}

	return FormatTimestamp(o.at)
}
