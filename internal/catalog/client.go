// Package catalog is the REST client for the library backend.
//
// Every entity has a small service (Users, Authors, Books, Loans) sharing one
// Client. Responses are unwrapped from the backend's {"data": ...} envelope and
// every failure comes back as an *APIError carrying the backend's message.
// There is no retry and no caching: each call is one request.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sufield/libadmin/internal/debug"
	"github.com/sufield/libadmin/internal/domain"
)

// DefaultBaseURL is used when New is given an empty base URL.
const DefaultBaseURL = "http://localhost:8080/api"

// fallbackMessage is reported when neither the backend nor the transport says anything.
const fallbackMessage = "Something went wrong"

// APIError is returned for transport failures and non-2xx responses.
// Status is zero when no response was received.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "api error: " + e.Message
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Is lets errors.Is(err, domain.ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Status == http.StatusNotFound
}

// Message extracts the user-facing text from err, preferring the backend's message.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallbackMessage
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     debug.Logger

	Users   *Users
	Authors *Authors
	Books   *Books
	Loans   *Loans
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying client, e.g. one built by the transport package.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the debug logger used to trace requests.
func WithLogger(l debug.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     debug.GetLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Users = &Users{c: c}
	c.Authors = &Authors{c: c}
	c.Books = &Books{c: c}
	c.Loans = &Loans{c: c}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and decodes the unwrapped payload into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.Debugf("catalog: %s %s", method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: transportMessage(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: transportMessage(err)}
	}

	c.log.Debugf("catalog: %s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	if out == nil {
		return nil
	}
	payload := unwrap(raw)
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

// unwrap returns the "data" member of an envelope, or the body itself when
// the body is not an envelope.
func unwrap(raw []byte) []byte {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		if data, ok := env["data"]; ok {
			return data
		}
	}
	return raw
}

func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func transportMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var out T
	err := c.do(ctx, method, path, in, &out)
	return out, err
}
