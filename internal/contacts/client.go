package contacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const resourcePath = "/contacts"

// Recorder observes the outcome of every remote call.
type Recorder interface {
	ObserveRemoteCall(op string, err error, elapsed time.Duration)
}

// Client wraps interactions with the remote contacts resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	recorder   Recorder
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRecorder attaches a call recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// NewClient constructs a new client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the remote resource answers the list endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, c.collectionURL(), nil, nil)
}

// List returns the full remote collection in the order it was served.
func (c *Client) List(ctx context.Context) ([]Employee, error) {
	var out []Employee
	if err := c.do(ctx, "list", http.MethodGet, c.collectionURL(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Employee{}
	}
	return out, nil
}

// Create posts a new record and returns the record as stored remotely.
func (c *Client) Create(ctx context.Context, emp Employee) (Employee, error) {
	var out Employee
	if err := c.do(ctx, "create", http.MethodPost, c.collectionURL(), emp, &out); err != nil {
		return Employee{}, err
	}
	return out, nil
}

// Update replaces the record stored under id. The response body must be JSON but
// its content is not interpreted.
func (c *Client) Update(ctx context.Context, id string, emp Employee) error {
	var ack json.RawMessage
	return c.do(ctx, "update", http.MethodPut, c.itemURL(id), emp, &ack)
}

// Delete removes the record stored under id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL + resourcePath
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + resourcePath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, target string, body, dest any) (err error) {
	start := time.Now()
	defer func() {
		if c.recorder != nil {
			c.recorder.ObserveRemoteCall(op, err, time.Since(start))
		}
	}()

	fail := func(status int, cause error) error {
		return &RemoteError{Op: op, Method: method, URL: target, Status: status, Err: cause}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(resp.StatusCode, nil)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fail(0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
