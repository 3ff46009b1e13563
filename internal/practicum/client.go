// Package practicum is the client for the homework status API.
//
// Each Fetch issues exactly one GET with the from_date cursor and classifies
// failures into *RequestError (transport) or *ResponseError (non-200 status).
// Body shape is NOT validated here; see the homework package.
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hwbot/pkg/logx"
)

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      logx.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests, custom
// transports). A client without a timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
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

func New(endpoint, token string, log logx.Logger, opts ...Option) *Client {
	if log.IsZero() {
		log = logx.Nop()
	}
	c := &Client{
		endpoint: endpoint,
		token:    token,
		// The remote endpoint is not always well-behaved; never let a hung
		// request stall the poll loop indefinitely.
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch requests homework changes since the given cursor and returns the
// decoded JSON body as a generic value. Numbers are kept as json.Number so
// integer checks downstream stay exact.
func (c *Client) Fetch(ctx context.Context, from int64) (any, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("bad endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(from, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	c.log.Debug("requesting homework statuses",
		logx.String("url", u.String()),
		logx.String("authorization", redactToken(c.token)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &RequestError{cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ResponseError{Status: resp.StatusCode, Body: "invalid JSON: " + err.Error()}
	}

	c.log.Debug("homework statuses fetched", logx.Int("status", resp.StatusCode))
	return v, nil
}

// redactToken keeps just enough of the secret to correlate log lines.
func redactToken(tok string) string {
	if len(tok) <= 4 {
		return "OAuth ****"
	}
	return "OAuth ****" + tok[len(tok)-4:]
}
