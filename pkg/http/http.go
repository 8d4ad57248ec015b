// Package http is a fluent client for calling external services.
//
//	res, err := http.Post("https://hooks.slack.com/services/...").
//	    Header("Content-Type", "application/json").
//	    Body(payload).
//	    Retry(2).
//	    Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdhttp "net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultClient is shared by all requests so connections are pooled.
var DefaultClient = &stdhttp.Client{Timeout: 30 * time.Second}

// Request is a fluent builder for an outgoing HTTP request.
type Request struct {
	method  string
	url     string
	headers map[string]string
	query   url.Values
	body    io.Reader
	timeout time.Duration
	retries int
	ctx     context.Context
	err     error
}

func newRequest(method, rawURL string) *Request {
	return &Request{
		method:  method,
		url:     rawURL,
		headers: map[string]string{},
		query:   url.Values{},
		ctx:     context.Background(),
	}
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(stdhttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(stdhttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(stdhttp.MethodPut, url) }

// Patch starts a PATCH request.
func Patch(url string) *Request { return newRequest(stdhttp.MethodPatch, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(stdhttp.MethodDelete, url) }

// Header sets a single header.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Headers sets multiple headers at once.
func (r *Request) Headers(h map[string]string) *Request {
	for k, v := range h {
		r.headers[k] = v
	}
	return r
}

// Bearer sets the Authorization header.
func (r *Request) Bearer(token string) *Request {
	r.headers["Authorization"] = "Bearer " + token
	return r
}

// Query adds a query-string parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Body marshals v to JSON and sets it as the request body.
func (r *Request) Body(v interface{}) *Request {
	buf, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("http: marshal body: %w", err)
		return r
	}
	r.body = bytes.NewReader(buf)
	if _, ok := r.headers["Content-Type"]; !ok {
		r.headers["Content-Type"] = "application/json"
	}
	return r
}

// RawBody sets the body as-is.
func (r *Request) RawBody(body io.Reader) *Request {
	r.body = body
	return r
}

// Form sets URL-encoded form values as the body.
func (r *Request) Form(values url.Values) *Request {
	r.body = strings.NewReader(values.Encode())
	r.headers["Content-Type"] = "application/x-www-form-urlencoded"
	return r
}

// Timeout overrides the per-request timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry sets how many times a failed request is retried.
// Retries apply to transport errors and 5xx responses, with
// exponential backoff starting at 200ms.
func (r *Request) Retry(n int) *Request {
	if n > 0 {
		r.retries = n
	}
	return r
}

// WithContext attaches a context for cancellation.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request.
func (r *Request) Send() (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	target := r.url
	if len(r.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.query.Encode()
	}

	var bodyBytes []byte
	if r.body != nil {
		var err error
		bodyBytes, err = io.ReadAll(r.body)
		if err != nil {
			return nil, err
		}
	}

	client := DefaultClient
	if r.timeout > 0 {
		client = &stdhttp.Client{Timeout: r.timeout, Transport: DefaultClient.Transport}
	}

	var lastErr error
	backoff := 200 * time.Millisecond
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-r.ctx.Done():
				return nil, r.ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := stdhttp.NewRequestWithContext(r.ctx, r.method, target, reader)
		if err != nil {
			return nil, err
		}
		for k, v := range r.headers {
			req.Header.Set(k, v)
		}

		res, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if res.StatusCode >= 500 && attempt < r.retries {
			res.Body.Close()
			lastErr = fmt.Errorf("http: %s %s returned %d", r.method, r.url, res.StatusCode)
			continue
		}

		data, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return nil, err
		}
		return &Response{StatusCode: res.StatusCode, body: data, headers: res.Header}, nil
	}
	return nil, fmt.Errorf("http: %s %s failed after %d attempts: %w", r.method, r.url, r.retries+1, lastErr)
}

// Response wraps the result of a sent request.
type Response struct {
	StatusCode int
	body       []byte
	headers    stdhttp.Header
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Bytes returns the raw response body.
func (r *Response) Bytes() []byte { return r.body }

// Text returns the response body as a string.
func (r *Response) Text() string { return string(r.body) }

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	return json.Unmarshal(r.body, dest)
}

// Header returns a response header value.
func (r *Response) Header(key string) string { return r.headers.Get(key) }

// Throw returns an error when the response is not 2xx.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("http: unexpected status %d: %s", r.StatusCode, truncate(r.Text(), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
