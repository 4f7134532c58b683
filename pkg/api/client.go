package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/metadeploy/metadeploy-sdk/pkg/stats"
	"github.com/metadeploy/metadeploy-sdk/pkg/util/log"
)

// HTTP const definitions
const (
	GET    string = http.MethodGet
	POST   string = http.MethodPost
	PUT    string = http.MethodPut
	PATCH  string = http.MethodPatch
	DELETE string = http.MethodDelete

	defaultTimeout = time.Second * 60

	// CSRFCookie - cookie the server sets with the csrf token
	CSRFCookie = "csrftoken"
	// CSRFHeader - header mutating requests echo the token in
	CSRFHeader = "X-CSRFToken"
)

// Request - the request object used when communicating to an API
type Request struct {
	Method      string
	URL         string
	QueryParams map[string]string
	Headers     map[string]string
	Body        []byte
}

// Response - the response object given back when communicating to an API
type Response struct {
	Code    int
	Body    []byte
	Headers map[string][]string
}

// Client -
type Client interface {
	Send(ctx context.Context, request Request) (*Response, error)
}

// masks the fields never written to the request log
var bodyObscurer = log.NewObscurer("email", "password", "token")

type httpClient struct {
	logger     log.FieldLogger
	httpClient *http.Client
	jar        http.CookieJar
	timeout    time.Duration
	userAgent  string
	metrics    stats.Collector
}

// ClientOpt -
type ClientOpt func(*httpClient)

// WithTimeout -
func WithTimeout(timeout time.Duration) ClientOpt {
	return func(h *httpClient) {
		if timeout > 0 {
			h.timeout = timeout
		}
	}
}

// WithUserAgent -
func WithUserAgent(userAgent string) ClientOpt {
	return func(h *httpClient) {
		h.userAgent = userAgent
	}
}

// WithCookieJar - share a session with another client, the push channel dials with the same jar
func WithCookieJar(jar http.CookieJar) ClientOpt {
	return func(h *httpClient) {
		h.jar = jar
	}
}

// WithMetrics -
func WithMetrics(collector stats.Collector) ClientOpt {
	return func(h *httpClient) {
		h.metrics = collector
	}
}

// NewCookieJar - a session cookie jar using the public suffix list for domain matching
func NewCookieJar() http.CookieJar {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// NewClient - creates a new HTTP client
func NewClient(options ...ClientOpt) Client {
	client := &httpClient{
		timeout: defaultTimeout,
		metrics: stats.Default(),
		logger: log.NewFieldLogger().
			WithComponent("httpClient").
			WithPackage("api"),
	}
	for _, o := range options {
		o(client)
	}
	if client.jar == nil {
		client.jar = NewCookieJar()
	}
	client.httpClient = &http.Client{
		Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		Jar:       client.jar,
		Timeout:   client.timeout,
	}
	return client
}

func isMutating(method string) bool {
	switch method {
	case GET, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	}
	return true
}

func (c *httpClient) csrfToken(u *url.URL) string {
	for _, cookie := range c.jar.Cookies(u) {
		if cookie.Name == CSRFCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *httpClient) prepareAPIRequest(ctx context.Context, request Request) (*http.Request, error) {
	requestURL := request.URL
	if len(request.QueryParams) != 0 {
		params := url.Values{}
		for key, value := range request.QueryParams {
			params.Add(key, value)
		}
		sep := "?"
		if strings.Contains(requestURL, "?") {
			sep = "&"
		}
		requestURL += sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, request.Method, requestURL, bytes.NewReader(request.Body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if len(request.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if isMutating(request.Method) {
		if token := c.csrfToken(req.URL); token != "" {
			req.Header.Set(CSRFHeader, token)
		}
	}
	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// Send - send the http request and returns the API Response
func (c *httpClient) Send(ctx context.Context, request Request) (*Response, error) {
	startTime := time.Now()

	req, err := c.prepareAPIRequest(ctx, request)
	if err != nil {
		c.logger.WithError(err).Error("error preparing api request")
		return nil, err
	}
	reqID := uuid.New().String()

	// Logging for the HTTP request
	statusCode := 0
	receivedData := int64(0)
	defer func() {
		duration := time.Since(startTime)
		c.metrics.Inc(stats.RequestCount)
		c.metrics.Observe(stats.RequestDuration, duration)

		logger := c.logger.
			WithField("id", reqID).
			WithField("method", req.Method).
			WithField("status", statusCode).
			WithField("duration(ms)", duration.Milliseconds()).
			WithField("url", req.URL.String())

		if req.ContentLength > 0 {
			logger = logger.
				WithField("sent(bytes)", req.ContentLength).
				WithField("body", bodyObscurer.JSON(request.Body))
		}
		if receivedData > 0 {
			logger = logger.WithField("received(bytes)", receivedData)
		}

		if err != nil {
			c.metrics.Inc(stats.RequestFailures)
			logger.WithError(err).Trace("request failed")
		} else {
			logger.Trace("request succeeded")
		}
	}()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	statusCode = res.StatusCode
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	receivedData = int64(len(body))

	return &Response{
		Code:    res.StatusCode,
		Body:    body,
		Headers: res.Header,
	}, nil
}
