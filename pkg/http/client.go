package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the client's circuit breaker rejects a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*response]
	logger  HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	// BreakerName enables a circuit breaker around every call when set.
	BreakerName string
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	// BreakerOpenTimeout is how long the breaker stays open before probing again.
	BreakerOpenTimeout time.Duration
	Logger             HTTPLogger
}

// response is the buffered result of one round trip.
type response struct {
	statusCode int
	body       []byte
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = NopLogger{}
	}

	client := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
		Timeout: opts.ReadTimeout,
	}

	hc := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  opts.Logger,
	}

	if opts.BreakerName != "" {
		hc.breaker = newBreaker(opts)
	}

	return hc
}

func newBreaker(opts ClientOptions) *gobreaker.CircuitBreaker[*response] {
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	openTimeout := opts.BreakerOpenTimeout
	if openTimeout == 0 {
		openTimeout = 30 * time.Second
	}

	return gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        opts.BreakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Client-side cancellation says nothing about upstream health.
			return errors.Is(err, context.Canceled)
		},
	})
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// BreakerState returns the circuit breaker state, or "disabled" when no breaker is configured.
func (hc *Client) BreakerState() string {
	if hc.breaker == nil {
		return "disabled"
	}
	return hc.breaker.State().String()
}

// doRequest builds the URL, prepares the request body, sets headers, executes the request
// through the circuit breaker and decodes the response into successResp or errorResp.
func (hc *Client) doRequest(ctx context.Context, method, path string, queryParams url.Values, headers map[string]string, body any, successResp any, errorResp any) (any, any, int, error) {
	fullURL := hc.buildURL(path)
	if len(queryParams) > 0 {
		fullURL += "?" + queryParams.Encode()
	}

	bodyBytes, err := encodeBody(body)
	if err != nil {
		return nil, nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, nil, 0, err
	}
	if body == nil {
		req.Body = http.NoBody
		req.ContentLength = 0
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logHeaders := flattenHeaders(req.Header)
	hc.logger.LogRequest(method, redactURL(fullURL), logHeaders, string(bodyBytes))

	start := time.Now()
	resp, err := hc.execute(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		err = redactError(err)
		hc.logger.LogResponseError(method, redactURL(fullURL), logHeaders, string(bodyBytes), 0, "", latency, err)
		return nil, nil, 0, err
	}

	if resp.statusCode >= 200 && resp.statusCode < 300 {
		hc.logger.LogResponseSuccess(method, redactURL(fullURL), logHeaders, string(bodyBytes), resp.statusCode, string(resp.body), latency)
		if successResp != nil {
			if err := json.Unmarshal(resp.body, successResp); err != nil {
				return nil, nil, resp.statusCode, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return successResp, nil, resp.statusCode, nil
	}

	statusErr := &StatusError{StatusCode: resp.statusCode}
	hc.logger.LogResponseError(method, redactURL(fullURL), logHeaders, string(bodyBytes), resp.statusCode, string(resp.body), latency, statusErr)

	if errorResp != nil {
		if err := json.Unmarshal(resp.body, errorResp); err != nil {
			return nil, nil, resp.statusCode, statusErr
		}
		return nil, errorResp, resp.statusCode, statusErr
	}

	return nil, nil, resp.statusCode, statusErr
}

// execute runs one round trip, through the breaker when configured. 5xx and 429 count as failures.
func (hc *Client) execute(req *http.Request) (*response, error) {
	roundTrip := func() (*response, error) {
		httpResp, err := hc.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = httpResp.Body.Close() }()

		bodyBytes, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		resp := &response{
			statusCode: httpResp.StatusCode,
			body:       bodyBytes,
		}
		if resp.statusCode >= 500 || resp.statusCode == http.StatusTooManyRequests {
			return resp, &StatusError{StatusCode: resp.statusCode}
		}
		return resp, nil
	}

	if hc.breaker == nil {
		resp, err := roundTrip()
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return resp, nil
		}
		return resp, err
	}

	resp, err := hc.breaker.Execute(roundTrip)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, hc.breaker.Name())
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && resp != nil {
		return resp, nil
	}
	return resp, err
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body to JSON: %w", err)
	}
	return jsonBody, nil
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for k := range header {
		flat[k] = header.Get(k)
	}
	return flat
}

// redactURL hides path segments that look like bot credentials (bot<id>:<secret>).
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	segments := strings.Split(parsed.Path, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "bot") && strings.Contains(segment, ":") {
			segments[i] = "botREDACTED"
		}
	}
	parsed.Path = strings.Join(segments, "/")
	parsed.RawPath = ""
	return parsed.String()
}

// redactError rewrites the URL carried by transport errors so credentials never reach logs or callers.
func redactError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactURL(urlErr.URL)
	}
	return err
}
