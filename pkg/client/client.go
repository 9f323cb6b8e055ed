// Package client calls the message gateway API and unwraps its envelopes.
// Error envelopes come back as envelope.Error values, which implement error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Behyna/sms-services/messagegateway/pkg/envelope"
	"github.com/Behyna/sms-services/messagegateway/pkg/httpclient"
)

const (
	headerRequestID      = "X-Request-ID"
	headerIdempotencyKey = "Idempotency-Key"
	headerContentType    = "Content-Type"
	mimeJSON             = "application/json"

	messagesPath = "/api/v1/messages"
)

var (
	ErrMalformedResponse = errors.New("malformed response")
	ErrTimeout           = errors.New("TIMEOUT")
)

type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Message struct {
	MessageID       int64  `json:"messageId"`
	ClientMessageID string `json:"clientMessageId"`
	From            string `json:"from"`
	To              string `json:"to"`
	Text            string `json:"text"`
	Status          string `json:"status"`
	CreatedAt       string `json:"createdAt"`
}

type CreateMessageRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Text      string `json:"text"`
	MessageID string `json:"messageId"`
}

type Client interface {
	Ping(ctx context.Context) (envelope.Empty, error)
	CreateMessage(ctx context.Context, req CreateMessageRequest, idempotencyKey string) (envelope.Success[Message], error)
	GetMessage(ctx context.Context, id int64) (envelope.Success[Message], error)
	ListMessages(ctx context.Context, userID string, page, pageSize int) (envelope.Paginated[Message], error)
	DeleteMessage(ctx context.Context, id int64) (envelope.Empty, error)
}

type client struct {
	baseURL string
	http    httpclient.HTTPClient
}

func New(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{baseURL: strings.TrimRight(cfg.URL, "/"), http: httpClient}
}

func (c *client) Ping(ctx context.Context) (envelope.Empty, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/ping", headers(ctx))
	return read(resp, err, envelope.DecodeEmpty)
}

func (c *client) CreateMessage(ctx context.Context, req CreateMessageRequest, idempotencyKey string) (envelope.Success[Message], error) {
	body, err := json.Marshal(req)
	if err != nil {
		return envelope.Success[Message]{}, fmt.Errorf("failed to encode request: %w", err)
	}

	h := headers(ctx)
	h[headerContentType] = mimeJSON
	if idempotencyKey != "" {
		h[headerIdempotencyKey] = idempotencyKey
	}

	resp, err := c.http.Post(ctx, c.baseURL+messagesPath, bytes.NewReader(body), h)
	return read(resp, err, envelope.DecodeSuccess[Message])
}

func (c *client) GetMessage(ctx context.Context, id int64) (envelope.Success[Message], error) {
	resp, err := c.http.Get(ctx, c.messageURL(id), headers(ctx))
	return read(resp, err, envelope.DecodeSuccess[Message])
}

func (c *client) ListMessages(ctx context.Context, userID string, page, pageSize int) (envelope.Paginated[Message], error) {
	query := url.Values{}
	query.Set("user_id", userID)
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("page_size", strconv.Itoa(pageSize))
	}

	resp, err := c.http.Get(ctx, c.baseURL+messagesPath+"?"+query.Encode(), headers(ctx))
	return read(resp, err, envelope.DecodePaginated[Message])
}

func (c *client) DeleteMessage(ctx context.Context, id int64) (envelope.Empty, error) {
	resp, err := c.http.Delete(ctx, c.messageURL(id), headers(ctx))
	return read(resp, err, envelope.DecodeEmpty)
}

func (c *client) messageURL(id int64) string {
	return c.baseURL + messagesPath + "/" + strconv.FormatInt(id, 10)
}

type requestIDKey struct{}

// WithRequestID makes calls made with ctx send requestID as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func headers(ctx context.Context) map[string]string {
	h := map[string]string{"Accept": mimeJSON}
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok && requestID != "" {
		h[headerRequestID] = requestID
	}

	return h
}

// read turns a response into the expected variant. An Error envelope is
// returned as the error; any other unexpected shape wraps ErrMalformedResponse.
func read[T any](resp *http.Response, err error, decode func([]byte) (T, error)) (T, error) {
	var zero T
	if errors.Is(err, context.DeadlineExceeded) {
		return zero, ErrTimeout
	}

	if err != nil {
		return zero, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	kind, err := envelope.Classify(body)
	if err != nil {
		return zero, fmt.Errorf("%w: status %d: %w", ErrMalformedResponse, resp.StatusCode, err)
	}

	if kind == envelope.KindError {
		failure, err := envelope.DecodeError(body)
		if err != nil {
			return zero, fmt.Errorf("%w: status %d: %w", ErrMalformedResponse, resp.StatusCode, err)
		}

		return zero, failure
	}

	out, err := decode(body)
	if err != nil {
		return zero, fmt.Errorf("%w: status %d: %w", ErrMalformedResponse, resp.StatusCode, err)
	}

	return out, nil
}
