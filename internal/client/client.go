package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultEndpoint is the backend API root used when none is configured.
	DefaultEndpoint = "http://localhost:8080"

	// connectionTimeout is the maximum amount of time spent on each http request to the backend.
	connectionTimeout = 30 * time.Second

	// errorBodyLimit caps the response body kept on a ResponseError.
	errorBodyLimit = 4096

	mimeJSON        = "application/json"
	mimeEventStream = "text/event-stream"
)

var (
	ErrEndpoint           = errors.New("invalid endpoint")
	ErrRequest            = errors.New("error in request")
	ErrUnexpectedResponse = errors.New("unexpected response from server")
	ErrDecode             = errors.New("error decoding response")
)

// ResponseError is returned for a response with a non 2xx status code.
type ResponseError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

func (e *ResponseError) Error() string {
	return "request failed with status code " + strconv.Itoa(e.StatusCode)
}

func (e *ResponseError) Unwrap() error {
	return ErrUnexpectedResponse
}

// Options configures a Client.
type Options struct {
	// Endpoint is the base URL requests paths are resolved against.
	Endpoint string

	// Timeout is applied to every request except streams, defaults to 30s.
	Timeout time.Duration

	UserAgent string

	// DisableCookies turns off the cookie jar, requests to third party services
	// do not share the backend session.
	DisableCookies bool

	Logger *logrus.Logger
}

// Interceptor is invoked on every outgoing request before it is sent.
type Interceptor func(req *http.Request)

// Client sends JSON requests to an API root.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *retryablehttp.Client
	stream    *retryablehttp.Client
	logger    *logrus.Logger

	mu           sync.RWMutex
	interceptors []Interceptor
}

// New returns a Client for the given options.
func New(opts Options) (*Client, error) {
	baseURL, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	return newClient(opts, baseURL), nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Wrap(ErrEndpoint, err.Error())
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrap(ErrEndpoint, "expected an http(s) URL: "+endpoint)
	}

	return u, nil
}

func newClient(opts Options, baseURL *url.URL) *Client {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	if opts.Timeout == 0 {
		opts.Timeout = connectionTimeout
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}

	transport := otelhttp.NewTransport(http.DefaultTransport.(*http.Transport).Clone())

	var jar http.CookieJar
	if !opts.DisableCookies {
		// cookiejar.New only returns an error for an invalid options value.
		jar, _ = cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	}

	c.http = c.newRetryableClient(&http.Client{Transport: transport, Jar: jar, Timeout: opts.Timeout})

	// streams are long lived, the client wide timeout does not apply
	c.stream = c.newRetryableClient(&http.Client{Transport: transport, Jar: jar})

	return c
}

// returns a retryable http client with the interceptors wired in as the request hook,
// requests are never retried, a failed request has to be invoked again by the caller.
func (c *Client) newRetryableClient(httpClient *http.Client) *retryablehttp.Client {
	retryableClient := retryablehttp.NewClient()
	retryableClient.HTTPClient = httpClient
	retryableClient.RetryMax = 0
	retryableClient.CheckRetry = noRetry
	retryableClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	// disable default debug logging on the retryable client
	if c.logger.Level < logrus.DebugLevel {
		retryableClient.Logger = nil
	} else {
		retryableClient.Logger = c.logger
	}

	retryableClient.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		for _, intercept := range c.snapshotInterceptors() {
			intercept(req)
		}
	}

	return retryableClient
}

func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// Use installs an interceptor, interceptors run in the order they were installed.
func (c *Client) Use(i Interceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.interceptors = append(c.interceptors, i)
}

func (c *Client) snapshotInterceptors() []Interceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]Interceptor(nil), c.interceptors...)
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// URL returns the absolute URL for path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = ""

	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// Do sends a request with body encoded as JSON, a 2xx response is decoded into out
// when out is non nil.
//
// A non 2xx response is returned as a *ResponseError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	ro := newRequestOptions(opts)
	ctx = withCredentials(ctx, ro.credentials)

	var rawBody interface{}

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(ErrRequest, "body encode: "+err.Error())
		}

		rawBody = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.URL(path, ro.query), rawBody)
	if err != nil {
		return errors.Wrap(ErrRequest, err.Error())
	}

	req.Header.Set("Accept", mimeJSON)
	req.Header.Set("Content-Type", mimeJSON)
	c.setUserAgent(req.Header)

	resp, err := c.send(c.http, req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if err := checkResponse(req, resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(ErrDecode, err.Error())
	}

	return nil
}

// Stream opens a long lived GET request accepting a server-sent event stream,
// the caller is expected to close the response body.
func (c *Client) Stream(ctx context.Context, path string, query url.Values, header http.Header) (*http.Response, error) {
	ctx = withCredentials(ctx, true)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, query), nil)
	if err != nil {
		return nil, errors.Wrap(ErrRequest, err.Error())
	}

	for k, v := range header {
		req.Header[k] = v
	}

	req.Header.Set("Accept", mimeEventStream)
	req.Header.Set("Cache-Control", "no-cache")
	c.setUserAgent(req.Header)

	resp, err := c.send(c.stream, req)
	if err != nil {
		return nil, err
	}

	if err := checkResponse(req, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return resp, nil
}

func (c *Client) setUserAgent(h http.Header) {
	if c.userAgent != "" {
		h.Set("User-Agent", c.userAgent)
	}
}

func (c *Client) send(rc *retryablehttp.Client, req *retryablehttp.Request) (*http.Response, error) {
	startTS := time.Now()

	resp, err := rc.Do(req)

	metrics.HTTPRequestRunTimeSummary.With(
		prometheus.Labels{"method": req.Method},
	).Observe(time.Since(startTS).Seconds())

	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	metrics.HTTPRequestCounter.With(prometheus.Labels{"method": req.Method, "code": code}).Inc()

	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}

		return nil, errors.Wrap(ErrRequest, err.Error())
	}

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"code":   resp.StatusCode,
	}).Trace("request sent")

	return resp, nil
}

func checkResponse(req *retryablehttp.Request, resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

	return &ResponseError{
		StatusCode: resp.StatusCode,
		Method:     req.Method,
		URL:        req.URL.String(),
		Body:       bytes.TrimSpace(body),
	}
}
