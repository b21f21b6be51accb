package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/ziaflow/marketing-lens/pkg/log"
)

const (
	// DefaultMaxRetries bounds the attempt count, not a separate budget.
	DefaultMaxRetries = 5
	// backoffCap limits the exponential component of the wait.
	backoffCap = 60 * time.Second

	requestTimeout = 30 * time.Second
)

// Response is the parsed outcome of a successful (2xx) request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError is a non-2xx answer from the remote platform. Statuses other
// than 429 are returned without retrying.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Requester is the outbound HTTP capability connectors depend on.
type Requester interface {
	Do(ctx context.Context, method, rawURL string, params url.Values, headers http.Header, body []byte) (*Response, error)
	Get(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Response, error)
}

// Client wraps outbound calls with a retry budget and exponential backoff
// plus uniform jitter on HTTP 429 and transport errors. The sleep and jitter
// sources are injectable so the backoff schedule is testable.
type Client struct {
	httpClient *http.Client
	maxRetries int
	sleep      func(time.Duration)
	jitter     func() float64
}

// Option configures a Client.
type Option func(*Client)

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSleep replaces the blocking wait between attempts.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// WithJitter replaces the uniform [0,1) jitter source.
func WithJitter(jitter func() float64) Option {
	return func(c *Client) {
		c.jitter = jitter
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		maxRetries: DefaultMaxRetries,
		sleep:      time.Sleep,
		jitter:     rand.Float64,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do executes the request with the retry policy. On success the parsed body
// is returned; on a non-2xx status other than 429 the call fails immediately
// with a *StatusError carrying the platform's status and message.
func (c *Client) Do(ctx context.Context, method, rawURL string, params url.Values, headers http.Header, body []byte) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.doOnce(ctx, method, rawURL, params, headers, body)
		if err == nil {
			return resp, nil
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode != http.StatusTooManyRequests {
			return nil, err
		}

		lastErr = err
		if attempt == c.maxRetries-1 {
			break
		}

		wait := c.backoff(attempt)
		log.ForContext(ctx).WithFields(log.Fields{
			"attempt": attempt + 1,
			"wait":    wait.String(),
			"url":     rawURL,
		}).Warn("httpclient: request failed, backing off before retry")
		c.sleep(wait)
	}

	return nil, lastErr
}

// Get is a convenience wrapper for GET requests.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, rawURL, params, headers, nil)
}

func (c *Client) doOnce(ctx context.Context, method, rawURL string, params url.Values, headers http.Header, body []byte) (*Response, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, errors.Wrap(err, "httpclient: building request")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "httpclient: transport failure")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "httpclient: reading response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// backoff computes min(cap, 2^attempt) seconds plus uniform jitter in [0,1).
func (c *Client) backoff(attempt int) time.Duration {
	exp := math.Min(backoffCap.Seconds(), math.Pow(2, float64(attempt)))
	return time.Duration((exp + c.jitter()) * float64(time.Second))
}
