package envelope

import "encoding/json"

var (
	successTrue  = true
	successFalse = false
)

// Success carries a single payload.
type Success[T any] struct {
	Data      T
	Message   *string
	Timestamp string
	RequestID *string
	Meta      map[string]any
}

type successWire[T any] struct {
	Success   *bool          `json:"success"`
	Data      T              `json:"data"`
	Message   *string        `json:"message,omitempty"`
	Timestamp string         `json:"timestamp"`
	RequestID *string        `json:"requestId,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// NewSuccess builds a Success envelope around data. Accepts WithMessage,
// WithRequestID and WithMeta.
func NewSuccess[T any](data T, opts ...Option) Success[T] {
	o := collect(opts)

	return Success[T]{
		Data:      data,
		Message:   o.message,
		Timestamp: o.timestamp(),
		RequestID: o.requestID,
		Meta:      o.meta,
	}
}

func (s Success[T]) Kind() Kind      { return KindSuccess }
func (s Success[T]) IsSuccess() bool { return true }
func (s Success[T]) Stamp() string   { return s.Timestamp }
func (s Success[T]) isEnvelope()     {}

func (s Success[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(successWire[T]{
		Success:   &successTrue,
		Data:      s.Data,
		Message:   s.Message,
		Timestamp: s.Timestamp,
		RequestID: s.RequestID,
		Meta:      s.Meta,
	})
}

func (s *Success[T]) UnmarshalJSON(data []byte) error {
	if err := expectKind(data, KindSuccess); err != nil {
		return err
	}

	decoded, err := decodeSuccess[T](data)
	if err != nil {
		return err
	}

	*s = decoded
	return nil
}

func decodeSuccess[T any](data []byte) (Success[T], error) {
	var w successWire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return Success[T]{}, &ShapeError{Kind: KindSuccess, Field: "data", Reason: err.Error()}
	}

	return Success[T]{
		Data:      w.Data,
		Message:   w.Message,
		Timestamp: w.Timestamp,
		RequestID: w.RequestID,
		Meta:      w.Meta,
	}, nil
}

// ErrorBody is the "error" object of an Error envelope.
type ErrorBody struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    *string        `json:"details,omitempty"`
	StatusCode int            `json:"statusCode"`
	Timestamp  string         `json:"timestamp"`
	Context    map[string]any `json:"context,omitempty"`
	RequestID  *string        `json:"requestId,omitempty"`
}

// Error is the failure variant. It also satisfies the error interface so
// handlers can return it as-is.
type Error struct {
	Err ErrorBody
}

type errorWire struct {
	Success *bool      `json:"success"`
	Error   *ErrorBody `json:"error"`
}

// NewError builds an Error envelope. Accepts WithDetails, WithContext and
// WithRequestID. statusCode is carried, not checked.
func NewError(code, message string, statusCode int, opts ...Option) Error {
	o := collect(opts)

	return Error{Err: ErrorBody{
		Code:       code,
		Message:    message,
		Details:    o.details,
		StatusCode: statusCode,
		Timestamp:  o.timestamp(),
		Context:    o.context,
		RequestID:  o.requestID,
	}}
}

func (e Error) Kind() Kind      { return KindError }
func (e Error) IsSuccess() bool { return false }
func (e Error) Stamp() string   { return e.Err.Timestamp }
func (e Error) isEnvelope()     {}

func (e Error) Error() string {
	return e.Err.Code + ": " + e.Err.Message
}

// WithRequestID returns a copy carrying requestID unless one is already set.
func (e Error) WithRequestID(requestID string) Error {
	if e.Err.RequestID != nil || requestID == "" {
		return e
	}

	e.Err.RequestID = &requestID
	return e
}

func (e Error) MarshalJSON() ([]byte, error) {
	body := e.Err
	return json.Marshal(errorWire{Success: &successFalse, Error: &body})
}

func (e *Error) UnmarshalJSON(data []byte) error {
	if err := expectKind(data, KindError); err != nil {
		return err
	}

	decoded, err := decodeError(data)
	if err != nil {
		return err
	}

	*e = decoded
	return nil
}

func decodeError(data []byte) (Error, error) {
	var w errorWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Error{}, &ShapeError{Kind: KindError, Field: "error", Reason: err.Error()}
	}

	if w.Error == nil {
		return Error{}, &ShapeError{Kind: KindError, Field: "error", Reason: "missing"}
	}

	return Error{Err: *w.Error}, nil
}

// Paginated carries one page of items and the collaborator's page metadata.
type Paginated[T any] struct {
	Data       []T
	Pagination PaginationParams
	Timestamp  string
	RequestID  *string
	Meta       map[string]any
}

type paginatedWire[T any] struct {
	Success    *bool            `json:"success"`
	Data       []T              `json:"data"`
	Pagination PaginationParams `json:"pagination"`
	Timestamp  string           `json:"timestamp"`
	RequestID  *string          `json:"requestId,omitempty"`
	Meta       map[string]any   `json:"meta,omitempty"`
}

// NewPaginated builds a Paginated envelope. items may be empty; pagination is
// taken as given. Accepts WithRequestID and WithMeta.
func NewPaginated[T any](items []T, pagination PaginationParams, opts ...Option) Paginated[T] {
	o := collect(opts)

	if items == nil {
		items = []T{}
	}

	return Paginated[T]{
		Data:       items,
		Pagination: pagination,
		Timestamp:  o.timestamp(),
		RequestID:  o.requestID,
		Meta:       o.meta,
	}
}

func (p Paginated[T]) Kind() Kind      { return KindPaginated }
func (p Paginated[T]) IsSuccess() bool { return true }
func (p Paginated[T]) Stamp() string   { return p.Timestamp }
func (p Paginated[T]) isEnvelope()     {}

func (p Paginated[T]) MarshalJSON() ([]byte, error) {
	items := p.Data
	if items == nil {
		items = []T{}
	}

	return json.Marshal(paginatedWire[T]{
		Success:    &successTrue,
		Data:       items,
		Pagination: p.Pagination,
		Timestamp:  p.Timestamp,
		RequestID:  p.RequestID,
		Meta:       p.Meta,
	})
}

func (p *Paginated[T]) UnmarshalJSON(data []byte) error {
	if err := expectKind(data, KindPaginated); err != nil {
		return err
	}

	decoded, err := decodePaginated[T](data)
	if err != nil {
		return err
	}

	*p = decoded
	return nil
}

func decodePaginated[T any](data []byte) (Paginated[T], error) {
	var w paginatedWire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return Paginated[T]{}, &ShapeError{Kind: KindPaginated, Field: "data", Reason: err.Error()}
	}

	items := w.Data
	if items == nil {
		items = []T{}
	}

	return Paginated[T]{
		Data:       items,
		Pagination: w.Pagination,
		Timestamp:  w.Timestamp,
		RequestID:  w.RequestID,
		Meta:       w.Meta,
	}, nil
}

// Empty acknowledges an operation that has nothing to return.
type Empty struct {
	Message   *string
	Timestamp string
	RequestID *string
}

type emptyWire struct {
	Success   *bool   `json:"success"`
	Message   *string `json:"message,omitempty"`
	Timestamp string  `json:"timestamp"`
	RequestID *string `json:"requestId,omitempty"`
}

// NewEmpty accepts WithMessage and WithRequestID.
func NewEmpty(opts ...Option) Empty {
	o := collect(opts)

	return Empty{
		Message:   o.message,
		Timestamp: o.timestamp(),
		RequestID: o.requestID,
	}
}

func (e Empty) Kind() Kind      { return KindEmpty }
func (e Empty) IsSuccess() bool { return true }
func (e Empty) Stamp() string   { return e.Timestamp }
func (e Empty) isEnvelope()     {}

func (e Empty) MarshalJSON() ([]byte, error) {
	return json.Marshal(emptyWire{
		Success:   &successTrue,
		Message:   e.Message,
		Timestamp: e.Timestamp,
		RequestID: e.RequestID,
	})
}

func (e *Empty) UnmarshalJSON(data []byte) error {
	if err := expectKind(data, KindEmpty); err != nil {
		return err
	}

	decoded, err := decodeEmpty(data)
	if err != nil {
		return err
	}

	*e = decoded
	return nil
}

func decodeEmpty(data []byte) (Empty, error) {
	var w emptyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Empty{}, &ShapeError{Kind: KindEmpty, Reason: err.Error()}
	}

	return Empty{Message: w.Message, Timestamp: w.Timestamp, RequestID: w.RequestID}, nil
}
