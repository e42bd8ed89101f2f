package slackclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/laetho/slack-message/internal/slackmessage"
)

const (
	DefaultEndpoint = "https://slack.com/api/chat.postMessage"
	DefaultTimeout  = 30 * time.Second

	contentTypeJSON = "application/json; charset=utf-8"
)

// Client posts messages to chat.postMessage. It holds no mutable state and
// may be reused for sequential sends.
type Client struct {
	bearer   string
	endpoint string
	http     *http.Client
	logger   *log.Logger
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		bearer:   "Bearer " + token,
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// TransportError is a failure to complete the HTTP round trip.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the round trip failed because a deadline expired.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// NewRequest builds the POST for msg without sending it.
func (c *Client) NewRequest(ctx context.Context, msg slackmessage.OutboundMessage) (*http.Request, error) {
	body, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.bearer)
	req.Header.Set("Content-Type", contentTypeJSON)
	return req, nil
}

// Send performs one request/response exchange. An ok:false reply is
// returned with a nil error; the caller decides what that means.
func (c *Client) Send(ctx context.Context, msg slackmessage.OutboundMessage) (*slackmessage.InboundResponse, error) {
	req, err := c.NewRequest(ctx, msg)
	if err != nil {
		return nil, err
	}

	c.logger.Printf("POST %s channel=%s", c.endpoint, msg.Channel)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post message", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	c.logger.Printf("response status=%d bytes=%d", resp.StatusCode, len(raw))

	return slackmessage.Parse(raw)
}
